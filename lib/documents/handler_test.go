package documentshandler

import (
	"context"
	"lariogistic-backend/internal/testsupport/fakestore"
	historyhandler "lariogistic-backend/lib/history"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	docapimodels "lariogistic-backend/models/api/documents"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	pngData = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00}
	pdfData = []byte("%PDF-1.4 contenido")
)

func pngFile(name string) docapimodels.Upload {
	return docapimodels.Upload{FileName: name, ContentType: "image/png", Size: int64(len(pngData)), Data: pngData}
}

func pdfFile(name string) docapimodels.Upload {
	return docapimodels.Upload{FileName: name, ContentType: "application/pdf", Size: int64(len(pdfData)), Data: pdfData}
}

type fixture struct {
	fake      *fakestore.DB
	storage   *fakestore.Storage
	handler   impl
	admin     models.Actor
	manager   models.Actor
	employee  models.Actor
	colleague models.Actor
	outsider  models.Actor
	tramiteID uint
	otherID   uint
}

func newFixture() *fixture {
	fake := fakestore.New()
	storage := &fakestore.Storage{}
	dept := fake.AddDepartment("Logística", models.StatusActive)
	other := fake.AddDepartment("Compras", models.StatusActive)
	tramiteType := fake.AddTramiteType("Permiso", models.StatusActive)
	f := &fixture{
		fake:    fake,
		storage: storage,
		handler: impl{
			store:        fake.DocumentStore(),
			tramiteStore: fake.TramiteStore(),
			storage:      storage,
			inTx: func(fn func(tx txStores) error) error {
				return fn(txStores{
					documents: fake.DocumentStore(),
					history:   historyhandler.NewLogger(fake.HistoryStore()),
				})
			},
			maxFiles:    5,
			maxFileSize: 64,
			now:         time.Now,
		},
		admin:     fake.AddUser("Admin", models.AdminRole, nil).ToActor(),
		manager:   fake.AddUser("Marta", models.ManagerRole, &dept.ID).ToActor(),
		employee:  fake.AddUser("Ernesto", models.EmployeeRole, &dept.ID).ToActor(),
		colleague: fake.AddUser("Carla", models.EmployeeRole, &dept.ID).ToActor(),
		outsider:  fake.AddUser("Omar", models.EmployeeRole, &other.ID).ToActor(),
	}
	f.tramiteID = fake.AddTramite(f.employee.ID, tramiteType.ID, models.TramitePending).ID
	f.otherID = fake.AddTramite(f.outsider.ID, tramiteType.ID, models.TramitePending).ID
	return f
}

func (f *fixture) attach(t *testing.T) docapimodels.DocumentView {
	list, err := f.handler.Attach(context.Background(), f.employee, f.tramiteID, []docapimodels.Upload{pdfFile("pasaje.pdf")})
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

func TestAttach(t *testing.T) {
	f := newFixture()
	list, err := f.handler.Attach(context.Background(), f.employee, f.tramiteID, []docapimodels.Upload{
		pngFile("foto.png"),
		pdfFile("pasaje.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, models.DocumentImage, list[0].Type)
	require.Equal(t, models.DocumentPDF, list[1].Type)
	require.Equal(t, f.employee.ID, list[0].OwnerID)
	require.Equal(t, []string{
		"tramites/documentos/image/foto.png",
		"tramites/documentos/raw/pasaje.pdf",
	}, f.storage.Uploaded)
	require.Equal(t, []string{"Adjuntó documento", "Adjuntó documento"}, f.fake.Actions())
	require.Equal(t, "Adjuntó documento: foto.png", f.fake.History[0].Description)
	require.Len(t, f.fake.Documents, 2)
}

func TestAttach_Rejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.handler.Attach(ctx, f.employee, 9999, []docapimodels.Upload{pngFile("a.png")})
	require.ErrorIs(t, err, apperrors.ErrTramiteNotFound)

	for _, actor := range []models.Actor{f.manager, f.admin, f.colleague} {
		_, err = f.handler.Attach(ctx, actor, f.tramiteID, []docapimodels.Upload{pngFile("a.png")})
		require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	}

	_, err = f.handler.Attach(ctx, f.employee, f.tramiteID, nil)
	require.ErrorIs(t, err, apperrors.ErrNoFilesProvided)

	tooMany := make([]docapimodels.Upload, 6)
	for idx := range tooMany {
		tooMany[idx] = pngFile("a.png")
	}
	_, err = f.handler.Attach(ctx, f.employee, f.tramiteID, tooMany)
	require.ErrorIs(t, err, apperrors.ErrTooManyFiles)

	big := pdfFile("grande.pdf")
	big.Data = make([]byte, 65)
	_, err = f.handler.Attach(ctx, f.employee, f.tramiteID, []docapimodels.Upload{pngFile("a.png"), big})
	require.True(t, apperrors.HasCode(err, "FileTooLarge"))

	_, err = f.handler.Attach(ctx, f.employee, f.tramiteID, []docapimodels.Upload{{FileName: "notas.txt", ContentType: "text/plain", Data: []byte("hola")}})
	require.ErrorIs(t, err, apperrors.ErrFileTypeNotAllowed)

	_, err = f.handler.Attach(ctx, f.employee, f.tramiteID, []docapimodels.Upload{{FileName: "vacio.png", ContentType: "image/png"}})
	require.ErrorIs(t, err, apperrors.ErrEmptyFile)

	// el segundo archivo no es un png real: no se sube ninguno
	fake := docapimodels.Upload{FileName: "falso.png", ContentType: "image/png", Data: []byte("not a png")}
	_, err = f.handler.Attach(ctx, f.employee, f.tramiteID, []docapimodels.Upload{pdfFile("pasaje.pdf"), fake})
	require.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	require.Empty(t, f.storage.Uploaded)
	require.Empty(t, f.fake.Documents)
	require.Empty(t, f.fake.History)
}

func TestAttach_RowFailureDeletesObject(t *testing.T) {
	f := newFixture()
	f.fake.FailOn = "documents.create"

	_, err := f.handler.Attach(context.Background(), f.employee, f.tramiteID, []docapimodels.Upload{pdfFile("pasaje.pdf")})
	require.ErrorIs(t, err, fakestore.ErrFake)
	require.Equal(t, f.storage.Uploaded, f.storage.Deleted)
	require.Empty(t, f.fake.Documents)
}

func TestListAndGet_Scope(t *testing.T) {
	f := newFixture()
	own := f.attach(t)
	f.fake.AddDocument(f.otherID, "ajeno.pdf")

	list, err := f.handler.List(f.employee, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, own.ID, list[0].ID)

	list, err = f.handler.List(f.manager, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = f.handler.List(f.admin, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = f.handler.List(f.outsider, f.tramiteID)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = f.handler.Get(f.colleague, own.ID)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	got, err := f.handler.Get(f.manager, own.ID)
	require.NoError(t, err)
	require.Equal(t, "pasaje.pdf", got.OriginalName)

	_, err = f.handler.Get(f.admin, 9999)
	require.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	doc := f.attach(t)
	oldPublicID := f.fake.Documents[doc.ID].PublicID

	_, err := f.handler.Replace(ctx, f.employee, doc.ID, docapimodels.ReplaceRequest{})
	require.ErrorIs(t, err, apperrors.ErrNothingToUpdate)

	_, err = f.handler.Replace(ctx, f.colleague, doc.ID, docapimodels.ReplaceRequest{File: ptr(pngFile("otro.png"))})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	got, err := f.handler.Replace(ctx, f.employee, doc.ID, docapimodels.ReplaceRequest{File: ptr(pngFile("nuevo.png")), Retain: true})
	require.NoError(t, err)
	require.Equal(t, models.DocumentImage, got.Type)
	require.Equal(t, "nuevo.png", got.OriginalName)
	require.Empty(t, f.storage.Deleted)

	retained := f.fake.Documents[doc.ID].PublicID
	_, err = f.handler.Replace(ctx, f.admin, doc.ID, docapimodels.ReplaceRequest{File: ptr(pdfFile("final.pdf"))})
	require.NoError(t, err)
	require.Equal(t, []string{retained}, f.storage.Deleted)
	require.NotEqual(t, oldPublicID, retained)
	require.Equal(t, "Actualizó documento: final.pdf", f.fake.History[len(f.fake.History)-1].Description)
}

func TestReplace_Reassign(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	doc := f.attach(t)

	_, err := f.handler.Replace(ctx, f.employee, doc.ID, docapimodels.ReplaceRequest{TramiteID: &f.otherID})
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	missing := uint(9999)
	_, err = f.handler.Replace(ctx, f.admin, doc.ID, docapimodels.ReplaceRequest{TramiteID: &missing})
	require.ErrorIs(t, err, apperrors.ErrTramiteNotFound)

	got, err := f.handler.Replace(ctx, f.admin, doc.ID, docapimodels.ReplaceRequest{TramiteID: &f.otherID})
	require.NoError(t, err)
	require.Equal(t, f.otherID, got.TramiteID)
	require.Equal(t, f.outsider.ID, got.OwnerID)
	require.Empty(t, f.storage.Deleted)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	doc := f.attach(t)
	publicID := f.fake.Documents[doc.ID].PublicID

	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(f.handler.Remove(ctx, f.admin, doc.ID)))
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(f.handler.Remove(ctx, f.manager, doc.ID)))
	require.ErrorIs(t, f.handler.Remove(ctx, f.employee, 9999), apperrors.ErrDocumentNotFound)

	f.storage.FailOnDelete = true
	require.Error(t, f.handler.Remove(ctx, f.employee, doc.ID))
	require.Contains(t, f.fake.Documents, doc.ID)

	f.storage.FailOnDelete = false
	require.NoError(t, f.handler.Remove(ctx, f.employee, doc.ID))
	require.NotContains(t, f.fake.Documents, doc.ID)
	require.Equal(t, []string{publicID}, f.storage.Deleted)
	require.Equal(t, "Eliminó documento: pasaje.pdf", f.fake.History[len(f.fake.History)-1].Description)
}

func ptr[T any](value T) *T {
	return &value
}

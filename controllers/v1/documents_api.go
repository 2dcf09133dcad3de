package apiv1

import (
	"io"
	"lariogistic-backend/config"
	"lariogistic-backend/controllers"
	documentshandler "lariogistic-backend/lib/documents"
	filestorage "lariogistic-backend/lib/file-storage"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/middleware"
	docapimodels "lariogistic-backend/models/api/documents"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type documentsApiController struct {
	controllers.BaseAPIController
}

func InitDocumentsApiRouters(app fiber.Router) {
	controller := documentsApiController{}
	app.Route("documentos", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("tramite/:id", middleware.CreateLimiter(), controller.attach)
		router.Get(":id", controller.get)
		router.Put(":id", middleware.UpdateLimiter(), controller.replace)
		router.Delete(":id", middleware.DeleteLimiter(), controller.remove)
	})
}

// @Summary Lista de documentos
// @Tags Documentos
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	tramite_id			query		int		false	"trámite"
// @Success 200 {object} apimodels.Response{data=[]docapimodels.DocumentView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/documentos [get]
func (c *documentsApiController) list(ctx *fiber.Ctx) error {
	tramiteID := ctx.QueryInt("tramite_id", 0)
	if tramiteID < 0 {
		return c.SendError(ctx, apperrors.InvalidField("Identificador de trámite inválido"))
	}
	list, err := documentshandler.Instance.List(c.Actor(ctx), uint(tramiteID))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, list)
}

// @Summary Adjuntar documentos a un trámite
// @Tags Documentos
// @Description Solo el solicitante del trámite, formulario multipart con el campo files
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "id del trámite"
// @Param	files	formData	file	true	"archivos"
// @Success 201 {object} apimodels.Response{data=[]docapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 413 {object} apimodels.Response
// @router /api/v1/documentos/tramite/{id} [post]
func (c *documentsApiController) attach(ctx *fiber.Ctx) error {
	tramiteID, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		return c.SendError(ctx, apperrors.ErrNoFilesProvided.WithCause(err))
	}
	uploads := make([]docapimodels.Upload, 0, len(form.File["files"]))
	for _, header := range form.File["files"] {
		upload, err := readUpload(header)
		if err != nil {
			return c.SendError(ctx, err)
		}
		uploads = append(uploads, *upload)
	}
	list, err := documentshandler.Instance.Attach(ctx.UserContext(), c.Actor(ctx), tramiteID, uploads)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusCreated, list)
}

// @Summary Documento por id
// @Tags Documentos
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=docapimodels.DocumentView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/documentos/{id} [get]
func (c *documentsApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	resp, err := documentshandler.Instance.Get(c.Actor(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Reemplazar o reasignar documento
// @Tags Documentos
// @Description Campo file para reemplazar el archivo, tramite_id para reasignar (solo administrador), retain=true conserva el archivo anterior
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Param	file		formData	file	false	"archivo nuevo"
// @Param	tramite_id	formData	int		false	"nuevo trámite"
// @Param	retain		formData	bool	false	"conservar el archivo anterior"
// @Success 200 {object} apimodels.Response{data=docapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/documentos/{id} [put]
func (c *documentsApiController) replace(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	var request docapimodels.ReplaceRequest
	if header, err := ctx.FormFile("file"); err == nil {
		request.File, err = readUpload(header)
		if err != nil {
			return c.SendError(ctx, err)
		}
	}
	if value := ctx.FormValue("tramite_id"); value != "" {
		tramiteID, err := strconv.ParseUint(value, 10, 64)
		if err != nil || tramiteID == 0 {
			return c.SendError(ctx, apperrors.InvalidField("Identificador de trámite inválido"))
		}
		reassign := uint(tramiteID)
		request.TramiteID = &reassign
	}
	if value := ctx.FormValue("retain"); value != "" {
		request.Retain, err = strconv.ParseBool(value)
		if err != nil {
			return c.SendError(ctx, apperrors.InvalidField("El campo retain debe ser true o false"))
		}
	}
	resp, err := documentshandler.Instance.Replace(ctx.UserContext(), c.Actor(ctx), id, request)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, resp)
}

// @Summary Eliminar documento
// @Tags Documentos
// @Description Borra el archivo del almacenamiento y el registro
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/documentos/{id} [delete]
func (c *documentsApiController) remove(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if err = documentshandler.Instance.Remove(ctx.UserContext(), c.Actor(ctx), id); err != nil {
		return c.SendError(ctx, err)
	}
	return c.SendResponse(ctx, fiber.StatusOK, nil)
}

// readUpload el tamaño y el tipo se controlan antes de leer el archivo a memoria
func readUpload(header *multipart.FileHeader) (*docapimodels.Upload, error) {
	if header.Size > config.Conf.Upload.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}
	contentType := header.Header.Get(fiber.HeaderContentType)
	if !filestorage.IsAllowedMime(contentType) {
		return nil, apperrors.ErrFileTypeNotAllowed
	}
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "error abriendo el archivo")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "error leyendo el archivo")
	}
	return &docapimodels.Upload{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Data:        data,
	}, nil
}

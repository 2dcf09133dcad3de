// Package fakestore implementaciones en memoria de los stores para los tests de handlers.
package fakestore

import (
	departmentsstore "lariogistic-backend/lib/departments/store"
	documentsstore "lariogistic-backend/lib/documents/store"
	historystore "lariogistic-backend/lib/history/store"
	refreshtokenstore "lariogistic-backend/lib/token/store"
	tramitesstore "lariogistic-backend/lib/tramites/store"
	usersstore "lariogistic-backend/lib/users/store"
	apperrors "lariogistic-backend/lib/utils/app-errors"
	"lariogistic-backend/models"
	dbmodels "lariogistic-backend/models/db"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DB estado compartido entre los stores falsos
type DB struct {
	Users        map[uint]*dbmodels.User
	Departments  map[uint]*dbmodels.Department
	Tramites     map[uint]*dbmodels.Tramite
	TramiteTypes map[uint]*dbmodels.TramiteType
	Documents    map[uint]*dbmodels.Document
	History      []dbmodels.History
	Tokens       []dbmodels.RefreshToken
	nextID       uint
	FailOn       string // nombre de operación que devuelve error
}

var ErrFake = errors.New("fallo simulado")

func New() *DB {
	return &DB{
		Users:        map[uint]*dbmodels.User{},
		Departments:  map[uint]*dbmodels.Department{},
		Tramites:     map[uint]*dbmodels.Tramite{},
		TramiteTypes: map[uint]*dbmodels.TramiteType{},
		Documents:    map[uint]*dbmodels.Document{},
		nextID:       100,
	}
}

func (d *DB) id() uint {
	d.nextID++
	return d.nextID
}

func (d *DB) fail(op string) error {
	if d.FailOn == op {
		return ErrFake
	}
	return nil
}

func (d *DB) AddDepartment(name string, status models.Status) *dbmodels.Department {
	rec := &dbmodels.Department{Name: name, Status: status}
	rec.ID = d.id()
	d.Departments[rec.ID] = rec
	return rec
}

func (d *DB) AddUser(name string, role models.UserRole, departmentID *uint) *dbmodels.User {
	rec := &dbmodels.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		Role:         role,
		DepartmentID: departmentID,
		Status:       models.StatusActive,
	}
	rec.ID = d.id()
	d.Users[rec.ID] = rec
	return rec
}

func (d *DB) AddTramiteType(name string, status models.Status) *dbmodels.TramiteType {
	rec := &dbmodels.TramiteType{ID: d.id(), Name: name, Status: status}
	d.TramiteTypes[rec.ID] = rec
	return rec
}

func (d *DB) AddTramite(userID, typeID uint, status models.TramiteStatus) *dbmodels.Tramite {
	rec := &dbmodels.Tramite{
		UserID:        userID,
		TramiteTypeID: typeID,
		Status:        status,
		SubmittedAt:   time.Now(),
	}
	rec.ID = d.id()
	d.Tramites[rec.ID] = rec
	return rec
}

func (d *DB) AddDocument(tramiteID uint, publicID string) *dbmodels.Document {
	rec := &dbmodels.Document{
		ID:           d.id(),
		TramiteID:    tramiteID,
		PublicID:     publicID,
		URL:          "http://storage/" + publicID,
		Type:         models.DocumentPDF,
		ResourceType: models.ResourceRaw,
		OriginalName: publicID,
		UploadedAt:   time.Now(),
	}
	d.Documents[rec.ID] = rec
	return rec
}

// Actions acciones registradas en el historial, en orden
func (d *DB) Actions() []string {
	result := make([]string, 0, len(d.History))
	for _, rec := range d.History {
		result = append(result, rec.Action)
	}
	return result
}

func (d *DB) withTramite(rec dbmodels.Tramite) dbmodels.Tramite {
	if user, ok := d.Users[rec.UserID]; ok {
		copied := *user
		rec.User = &copied
	}
	if tramiteType, ok := d.TramiteTypes[rec.TramiteTypeID]; ok {
		copied := *tramiteType
		rec.TramiteType = &copied
	}
	return rec
}

func sortedKeys[T any](m map[uint]T) []uint {
	keys := make([]uint, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
	return keys
}

// Users

func (d *DB) UserStore() usersstore.Provider { return userStore{d} }

type userStore struct{ d *DB }

func (s userStore) Create(rec *dbmodels.User) (uint, error) {
	if err := s.d.fail("users.create"); err != nil {
		return 0, err
	}
	rec.ID = s.d.id()
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	copied := *rec
	s.d.Users[rec.ID] = &copied
	return rec.ID, nil
}

func (s userStore) Update(id uint, updMap map[string]interface{}) error {
	if err := s.d.fail("users.update"); err != nil {
		return err
	}
	rec, ok := s.d.Users[id]
	if !ok {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "name":
			rec.Name = value.(string)
		case "email":
			rec.Email = value.(string)
		case "phone":
			rec.Phone = value.(string)
		case "address":
			rec.Address = value.(string)
		case "role":
			rec.Role = value.(models.UserRole)
		case "status":
			rec.Status = value.(models.Status)
		case "department_id":
			rec.DepartmentID = value.(*uint)
		case "password_hash":
			rec.PasswordHash = value.(*string)
		case "google_id":
			rec.GoogleID = value.(*string)
		}
	}
	return nil
}

func (s userStore) GetByID(id uint) (*dbmodels.User, error) {
	if err := s.d.fail("users.get"); err != nil {
		return nil, err
	}
	rec, ok := s.d.Users[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	if rec.DepartmentID != nil {
		copied.Department = s.d.Departments[*rec.DepartmentID]
	}
	return &copied, nil
}

func (s userStore) FindByEmail(email string) (*dbmodels.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, id := range sortedKeys(s.d.Users) {
		if s.d.Users[id].Email == email {
			return s.GetByID(id)
		}
	}
	return nil, nil
}

func (s userStore) ExistByEmail(email string) (bool, error) {
	rec, err := s.FindByEmail(email)
	return rec != nil, err
}

func (s userStore) GetList(filter usersstore.ListFilter) ([]dbmodels.User, error) {
	result := []dbmodels.User{}
	for _, id := range sortedKeys(s.d.Users) {
		rec := s.d.Users[id]
		if filter.ExcludeAdmins && rec.Role == models.AdminRole {
			continue
		}
		if filter.DepartmentID != nil && (rec.DepartmentID == nil || *rec.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.Role != 0 && rec.Role != filter.Role {
			continue
		}
		result = append(result, *rec)
	}
	sort.SliceStable(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result, nil
}

func (s userStore) FindAdmin() (*dbmodels.User, error) {
	for _, id := range sortedKeys(s.d.Users) {
		if s.d.Users[id].Role == models.AdminRole {
			return s.GetByID(id)
		}
	}
	return nil, nil
}

// Departments

func (d *DB) DepartmentStore() departmentsstore.Provider { return departmentStore{d} }

type departmentStore struct{ d *DB }

func (s departmentStore) Create(rec dbmodels.Department) (uint, error) {
	if rec.Status == "" {
		rec.Status = models.StatusActive
	}
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	if err := s.IsUnique(rec.Name, 0); err != nil {
		return 0, err
	}
	rec.ID = s.d.id()
	s.d.Departments[rec.ID] = &rec
	return rec.ID, nil
}

func (s departmentStore) GetByID(id uint) (*dbmodels.Department, error) {
	rec, ok := s.d.Departments[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s departmentStore) GetList() ([]dbmodels.Department, error) {
	result := []dbmodels.Department{}
	for _, id := range sortedKeys(s.d.Departments) {
		result = append(result, *s.d.Departments[id])
	}
	return result, nil
}

func (s departmentStore) Update(id uint, updMap map[string]interface{}) error {
	rec, ok := s.d.Departments[id]
	if !ok {
		return nil
	}
	if name, ok := updMap["name"]; ok {
		if err := s.IsUnique(name.(string), id); err != nil {
			return err
		}
		rec.Name = name.(string)
	}
	if description, ok := updMap["description"]; ok {
		rec.Description = description.(string)
	}
	if status, ok := updMap["status"]; ok {
		rec.Status = status.(models.Status)
	}
	return nil
}

func (s departmentStore) IsUnique(name string, excludeID uint) error {
	for id, rec := range s.d.Departments {
		if id != excludeID && strings.EqualFold(rec.Name, strings.TrimSpace(name)) {
			return apperrors.ErrDepartmentExists
		}
	}
	return nil
}

// Tramites

func (d *DB) TramiteStore() tramitesstore.Provider { return tramiteStore{d} }

type tramiteStore struct{ d *DB }

func (s tramiteStore) Create(rec *dbmodels.Tramite) (uint, error) {
	if err := s.d.fail("tramites.create"); err != nil {
		return 0, err
	}
	rec.ID = s.d.id()
	copied := *rec
	copied.User = nil
	copied.TramiteType = nil
	s.d.Tramites[rec.ID] = &copied
	return rec.ID, nil
}

func (s tramiteStore) GetByID(id uint) (*dbmodels.Tramite, error) {
	rec, ok := s.d.Tramites[id]
	if !ok {
		return nil, nil
	}
	result := s.d.withTramite(*rec)
	return &result, nil
}

func (s tramiteStore) filtered(filter tramitesstore.ListFilter) []dbmodels.Tramite {
	result := []dbmodels.Tramite{}
	for _, id := range sortedKeys(s.d.Tramites) {
		rec := s.d.withTramite(*s.d.Tramites[id])
		if filter.OwnerID != 0 && rec.UserID != filter.OwnerID {
			continue
		}
		if filter.DepartmentID != nil {
			dept := rec.OwnerDepartmentID()
			if dept == nil || *dept != *filter.DepartmentID {
				continue
			}
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.TramiteTypeID != 0 && rec.TramiteTypeID != filter.TramiteTypeID {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func (s tramiteStore) ListCount(filter tramitesstore.ListFilter) (int64, error) {
	return int64(len(s.filtered(filter))), nil
}

func (s tramiteStore) List(filter tramitesstore.ListFilter) ([]dbmodels.Tramite, error) {
	list := s.filtered(filter)
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		from := (page - 1) * filter.Limit
		if from >= len(list) {
			return []dbmodels.Tramite{}, nil
		}
		to := from + filter.Limit
		if to > len(list) {
			to = len(list)
		}
		list = list[from:to]
	}
	return list, nil
}

func (s tramiteStore) UpdateStatus(id uint, status models.TramiteStatus) error {
	if err := s.d.fail("tramites.update_status"); err != nil {
		return err
	}
	if rec, ok := s.d.Tramites[id]; ok {
		rec.Status = status
	}
	return nil
}

func (s tramiteStore) Delete(id uint) error {
	delete(s.d.Tramites, id)
	for docID, doc := range s.d.Documents {
		if doc.TramiteID == id {
			delete(s.d.Documents, docID)
		}
	}
	return nil
}

func (s tramiteStore) GetType(id uint) (*dbmodels.TramiteType, error) {
	rec, ok := s.d.TramiteTypes[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s tramiteStore) ListTypes() ([]dbmodels.TramiteType, error) {
	result := []dbmodels.TramiteType{}
	for _, id := range sortedKeys(s.d.TramiteTypes) {
		if s.d.TramiteTypes[id].Status == models.StatusActive {
			result = append(result, *s.d.TramiteTypes[id])
		}
	}
	return result, nil
}

// Documents

func (d *DB) DocumentStore() documentsstore.Provider { return documentStore{d} }

type documentStore struct{ d *DB }

func (s documentStore) Create(rec *dbmodels.Document) (uint, error) {
	if err := s.d.fail("documents.create"); err != nil {
		return 0, err
	}
	rec.ID = s.d.id()
	copied := *rec
	copied.Tramite = nil
	s.d.Documents[rec.ID] = &copied
	return rec.ID, nil
}

func (s documentStore) GetByID(id uint) (*dbmodels.Document, error) {
	rec, ok := s.d.Documents[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	if tramite, ok := s.d.Tramites[rec.TramiteID]; ok {
		withTramite := s.d.withTramite(*tramite)
		copied.Tramite = &withTramite
	}
	return &copied, nil
}

func (s documentStore) List(filter documentsstore.ListFilter) ([]dbmodels.Document, error) {
	result := []dbmodels.Document{}
	for _, id := range sortedKeys(s.d.Documents) {
		rec, _ := s.GetByID(id)
		if filter.TramiteID != 0 && rec.TramiteID != filter.TramiteID {
			continue
		}
		if filter.OwnerID != 0 && rec.OwnerID() != filter.OwnerID {
			continue
		}
		if filter.DepartmentID != nil {
			if rec.Tramite == nil {
				continue
			}
			dept := rec.Tramite.OwnerDepartmentID()
			if dept == nil || *dept != *filter.DepartmentID {
				continue
			}
		}
		result = append(result, *rec)
	}
	return result, nil
}

func (s documentStore) Update(id uint, updMap map[string]interface{}) error {
	if err := s.d.fail("documents.update"); err != nil {
		return err
	}
	rec, ok := s.d.Documents[id]
	if !ok {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "tramite_id":
			rec.TramiteID = value.(uint)
		case "public_id":
			rec.PublicID = value.(string)
		case "url":
			rec.URL = value.(string)
		case "type":
			rec.Type = value.(models.DocumentType)
		case "resource_type":
			rec.ResourceType = value.(models.ResourceType)
		case "original_name":
			rec.OriginalName = value.(string)
		case "size":
			rec.Size = value.(int64)
		case "uploaded_at":
			rec.UploadedAt = value.(time.Time)
		}
	}
	return nil
}

func (s documentStore) Delete(id uint) error {
	if err := s.d.fail("documents.delete"); err != nil {
		return err
	}
	delete(s.d.Documents, id)
	return nil
}

// History

func (d *DB) HistoryStore() historystore.Provider { return historyStore{d} }

type historyStore struct{ d *DB }

func (s historyStore) Create(rec *dbmodels.History) (uint, error) {
	if err := s.d.fail("history.create"); err != nil {
		return 0, err
	}
	rec.ID = s.d.id()
	s.d.History = append(s.d.History, *rec)
	return rec.ID, nil
}

func (s historyStore) GetByID(id uint) (*dbmodels.History, error) {
	for _, rec := range s.d.History {
		if rec.ID == id {
			copied := rec
			if user, ok := s.d.Users[rec.UserID]; ok {
				copied.User = user
			}
			return &copied, nil
		}
	}
	return nil, nil
}

func (s historyStore) filtered(filter historystore.ListFilter) []dbmodels.History {
	result := []dbmodels.History{}
	for idx := len(s.d.History) - 1; idx >= 0; idx-- {
		rec := s.d.History[idx]
		if filter.UserID != 0 && rec.UserID != filter.UserID {
			continue
		}
		if filter.TramiteID != 0 && (rec.TramiteID == nil || *rec.TramiteID != filter.TramiteID) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func (s historyStore) ListCount(filter historystore.ListFilter) (int64, error) {
	return int64(len(s.filtered(filter))), nil
}

func (s historyStore) List(filter historystore.ListFilter) ([]dbmodels.History, error) {
	list := s.filtered(filter)
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		from := (page - 1) * filter.Limit
		if from >= len(list) {
			return []dbmodels.History{}, nil
		}
		to := from + filter.Limit
		if to > len(list) {
			to = len(list)
		}
		list = list[from:to]
	}
	return list, nil
}

func (s historyStore) Update(id uint, updMap map[string]interface{}) error {
	for idx := range s.d.History {
		if s.d.History[idx].ID != id {
			continue
		}
		if action, ok := updMap["action"]; ok {
			s.d.History[idx].Action = action.(string)
		}
		if description, ok := updMap["description"]; ok {
			s.d.History[idx].Description = description.(string)
		}
	}
	return nil
}

func (s historyStore) Delete(id uint) error {
	for idx := range s.d.History {
		if s.d.History[idx].ID == id {
			s.d.History = append(s.d.History[:idx], s.d.History[idx+1:]...)
			return nil
		}
	}
	return nil
}

// RefreshTokens

func (d *DB) RefreshTokenStore() refreshtokenstore.Provider { return refreshTokenStore{d} }

type refreshTokenStore struct{ d *DB }

func (s refreshTokenStore) Create(rec dbmodels.RefreshToken) (uint, error) {
	rec.ID = s.d.id()
	rec.CreatedAt = time.Now()
	s.d.Tokens = append(s.d.Tokens, rec)
	return rec.ID, nil
}

func (s refreshTokenStore) FindActive(token string, now time.Time) (*dbmodels.RefreshToken, error) {
	for _, rec := range s.d.Tokens {
		if rec.Token == token && rec.IsValid(now) {
			copied := rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (s refreshTokenStore) DeactivateByUser(userID uint) (int64, error) {
	var count int64
	for idx := range s.d.Tokens {
		if s.d.Tokens[idx].UserID == userID && s.d.Tokens[idx].Active {
			s.d.Tokens[idx].Active = false
			count++
		}
	}
	return count, nil
}

func (s refreshTokenStore) DeleteStale(now time.Time, inactiveBefore time.Time) (int64, error) {
	kept := s.d.Tokens[:0]
	var count int64
	for _, rec := range s.d.Tokens {
		if rec.IsExpired(now) || (!rec.Active && rec.CreatedAt.Before(inactiveBefore)) {
			count++
			continue
		}
		kept = append(kept, rec)
	}
	s.d.Tokens = kept
	return count, nil
}

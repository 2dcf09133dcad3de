package models

type RbacFunc func(actor Actor, path string) bool

type Module string

const (
	UsersModule       Module = "USUARIOS"
	TramitesModule    Module = "TRAMITES"
	DocumentsModule   Module = "DOCUMENTOS"
	DepartmentsModule Module = "DEPARTAMENTOS"
	HistoryModule     Module = "HISTORIAL"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	FilesPermission  Permission = "FILES"
)

// Action acción sobre un recurso concreto, la evalúa lib/policy
type Action string

const (
	UserViewAction           Action = "user.view"
	UserListAction           Action = "user.list"
	UserCreateAction         Action = "user.create"
	UserUpdateAction         Action = "user.update"
	UserManageAction         Action = "user.manage"
	UserChangePasswordAction Action = "user.change_password"
	UserDeleteAction         Action = "user.delete"

	TramiteCreateAction       Action = "tramite.create"
	TramiteViewAction         Action = "tramite.view"
	TramiteChangeStatusAction Action = "tramite.change_status"
	TramiteDeleteAction       Action = "tramite.delete"

	DocumentAttachAction   Action = "document.attach"
	DocumentViewAction     Action = "document.view"
	DocumentReplaceAction  Action = "document.replace"
	DocumentReassignAction Action = "document.reassign"
	DocumentRemoveAction   Action = "document.remove"

	DepartmentManageAction Action = "department.manage"
	HistoryManageAction    Action = "history.manage"
)

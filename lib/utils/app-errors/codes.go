package apperrors

// generales
var (
	ErrInternal        = newError(KindInternal, "InternalError", "Error interno del servidor")
	ErrBadRequest      = NewValidation("BadRequest", "No se pudieron leer los datos de la solicitud")
	ErrNothingToUpdate = NewValidation("NothingToUpdate", "No hay campos para actualizar")
	ErrForbidden       = NewForbidden("Forbidden", "No tienes permisos para realizar esta acción")
	ErrTooManyRequests = newError(KindTooManyRequests, "TooManyRequests", "Demasiadas solicitudes, intenta más tarde")
	ErrRouteNotFound   = NewNotFound("RouteNotFound", "Ruta no encontrada")
)

// autenticación
var (
	ErrInvalidCredentials    = NewUnauthorized("InvalidCredentials", "Credenciales inválidas")
	ErrMissingToken          = NewUnauthorized("MissingToken", "Token de acceso requerido")
	ErrInvalidToken          = NewUnauthorized("InvalidToken", "Token de acceso inválido o expirado")
	ErrInvalidOrExpiredToken = NewUnauthorized("InvalidOrExpiredToken", "Token de refresco inválido o expirado")
	ErrInvalidOrInactiveUser = NewUnauthorized("InvalidOrInactiveUser", "Usuario inválido o inactivo")
	ErrGoogleAuthFailed      = NewUnauthorized("Unauthorized", "No se pudo autenticar con Google")
	ErrInactiveUser          = NewForbidden("InactiveUser", "La cuenta de usuario está inactiva")
	ErrUserNotRegistered     = NewForbidden("UserNotRegistered", "El usuario no está registrado, contacta al administrador")
	ErrProviderMismatch      = NewConflict("ProviderMismatch", "El correo ya está registrado con otro método")
)

// usuarios
var (
	ErrUserNotFound          = NewNotFound("UserNotFound", "Usuario no encontrado")
	ErrDuplicateEmail        = NewConflict("DuplicateEmail", "El correo ya está registrado")
	ErrInvalidRole           = NewValidation("InvalidRole", "Rol no válido, solo se permiten Manager o Empleado")
	ErrInvalidStatus         = NewValidation("InvalidStatus", "Estado no válido")
	ErrAdminImmunity         = NewForbidden("AdminImmunity", "No se puede modificar la cuenta de otro administrador")
	ErrAdminRoleImmutable    = NewForbidden("AdminRoleImmutable", "No se puede cambiar el rol de una cuenta de administrador")
	ErrAdminStatusImmutable  = NewForbidden("AdminStatusImmutable", "No se puede cambiar el estado de una cuenta de administrador")
	ErrRoleEscalation        = NewForbidden("RoleEscalation", "No tienes permisos para asignar ese rol")
	ErrWrongCurrentPassword  = NewValidation("WrongCurrentPassword", "Contraseña actual incorrecta")
	ErrCurrentPasswordNeeded = NewValidation("CurrentPasswordRequired", "La contraseña actual es requerida")
	ErrUserAlreadyInactive   = NewConflict("UserAlreadyInactive", "El usuario ya está inactivo")
	ErrSelfDelete            = NewForbidden("SelfDelete", "No puedes eliminar tu propia cuenta")
	ErrNoDepartment          = NewValidation("NoDepartment", "No tienes un departamento asignado")
)

// departamentos
var (
	ErrDepartmentNotFound      = NewNotFound("DepartmentNotFound", "Departamento no encontrado")
	ErrDepartmentInactive      = NewValidation("DepartmentInactive", "El departamento no existe o está inactivo")
	ErrDepartmentExists        = NewConflict("DuplicateDepartment", "Ya existe un departamento con ese nombre")
	ErrDepartmentAlreadyClosed = NewConflict("DepartmentAlreadyInactive", "El departamento ya está inactivo")
)

// trámites
var (
	ErrTramiteNotFound     = NewNotFound("TramiteNotFound", "Trámite no encontrado")
	ErrTramiteTypeNotFound = NewValidation("TramiteTypeNotFound", "El tipo de trámite especificado no existe")
	ErrInvalidDateRange    = NewValidation("InvalidDateRange", "La fecha de inicio no puede ser posterior a la fecha de fin")
	ErrInvalidState        = NewValidation("InvalidState", "Estado de trámite no válido")
	ErrInvalidTransition   = NewConflict("InvalidTransition", "Transición de estado no permitida")
	ErrAlreadyApproved     = NewForbidden("AlreadyApproved", "El trámite ya fue aprobado, solo un administrador puede modificarlo")
	ErrTramiteClosed       = NewForbidden("TramiteClosed", "El trámite está cerrado, solo un administrador puede modificarlo")
	ErrNotPending          = NewForbidden("NotPending", "Solo se pueden eliminar trámites pendientes")
)

// documentos
var (
	ErrDocumentNotFound   = NewNotFound("DocumentNotFound", "Documento no encontrado")
	ErrNoFilesProvided    = NewValidation("NoFilesProvided", "Al menos un archivo es requerido")
	ErrTooManyFiles       = NewValidation("TooManyFiles", "Se excedió la cantidad máxima de archivos")
	ErrFileTooLarge       = NewValidation("FileTooLarge", "El archivo excede el tamaño máximo permitido")
	ErrFileTypeNotAllowed = NewValidation("FileTypeNotAllowed", "Tipo de archivo no permitido")
	ErrEmptyFile          = NewValidation("EmptyFile", "El archivo está vacío")
	ErrInvalidSignature   = NewValidation("InvalidFileSignature", "El contenido del archivo no corresponde a su tipo")
)

// historial
var (
	ErrHistoryNotFound = NewNotFound("HistoryNotFound", "Registro de historial no encontrado")
)

// MissingField campo requerido ausente
func MissingField(message string) *Error {
	return NewValidation("MissingRequiredField", message)
}

func InvalidField(message string) *Error {
	return NewValidation("InvalidField", message)
}

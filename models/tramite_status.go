package models

type TramiteStatus string

const (
	TramitePending  TramiteStatus = "pendiente"
	TramiteApproved TramiteStatus = "aprobado"
	TramiteRejected TramiteStatus = "rechazado"
	TramiteInReview TramiteStatus = "en_revision"
)

var tramiteStatusHumanName = map[TramiteStatus]string{
	TramitePending:  "Pendiente",
	TramiteApproved: "Aprobado",
	TramiteRejected: "Rechazado",
	TramiteInReview: "En revisión",
}

var tramiteTransitions = map[TramiteStatus][]TramiteStatus{
	TramitePending:  {TramiteApproved, TramiteRejected, TramiteInReview},
	TramiteInReview: {TramiteApproved, TramiteRejected, TramiteInReview},
}

func (s TramiteStatus) ToHuman() string {
	if human, exist := tramiteStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s TramiteStatus) IsValid() bool {
	_, ok := tramiteStatusHumanName[s]
	return ok
}

// IsClosed aprobado y rechazado son terminales salvo para el administrador
func (s TramiteStatus) IsClosed() bool {
	return s == TramiteApproved || s == TramiteRejected
}

// IsAllowChange valida la tabla de transiciones.
// Desde un estado cerrado solo sale el administrador, eso lo valida quien llama.
func (s TramiteStatus) IsAllowChange(next TramiteStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s.IsClosed() {
		return next != s
	}
	for _, allowed := range tramiteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

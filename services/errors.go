package services

import "errors"

// Общие ошибки бизнес-логики. Каждая мутация проверяет свои предусловия
// синхронно, первая несработавшая проверка останавливает операцию целиком.
var (
	// Ресурсы
	ErrEntryNotFound      = errors.New("participant entry not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMembershipNotFound = errors.New("team membership not found")

	// Доступ
	ErrNotMember   = errors.New("caller is not a member of this entry")
	ErrOnlyCaptain = errors.New("only the team captain can manage roster slots")

	// Состояние окна чек-ина
	ErrCheckInNotOpen   = errors.New("check-in window is not open")
	ErrAlreadyForfeited = errors.New("entry has been eliminated and cannot check in")

	// Валидация и лимиты ростера
	ErrRosterLocked      = errors.New("team roster is locked")
	ErrBadSlot           = errors.New("requested slot must be starter or substitute")
	ErrCannotMoveCaptain = errors.New("the captain's slot cannot be changed")
	ErrMaxStarters       = errors.New("maximum number of starters reached")
)

// ErrorCode возвращает стабильный машинный код для ошибки сервиса; клиенты
// матчатся по коду, не по тексту.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrOnlyCaptain):
		return "onlyCaptain"
	case errors.Is(err, ErrRosterLocked):
		return "rosterLocked"
	case errors.Is(err, ErrBadSlot):
		return "badSlot"
	case errors.Is(err, ErrCannotMoveCaptain):
		return "cannotMoveCaptain"
	case errors.Is(err, ErrMaxStarters):
		return "maxStarters"
	case errors.Is(err, ErrCheckInNotOpen):
		return "windowNotOpen"
	case errors.Is(err, ErrAlreadyForfeited):
		return "alreadyForfeited"
	case errors.Is(err, ErrNotMember):
		return "notMember"
	case errors.Is(err, ErrEntryNotFound),
		errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrTeamNotFound),
		errors.Is(err, ErrMembershipNotFound):
		return "notFound"
	default:
		return "internal"
	}
}

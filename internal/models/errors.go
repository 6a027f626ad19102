package models

import "errors"

// Ошибки доменного уровня. Обработчики сопоставляют их с HTTP-статусами
// через errors.Is, поэтому сервисы обязаны оборачивать, а не подменять их.
var (
	// ErrUserNotFound — пользователь с указанным идентификатором не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrServiceNotFound — услуга с указанным идентификатором не существует.
	ErrServiceNotFound = errors.New("service not found")
	// ErrDomainNotFound — домен с указанным идентификатором не существует.
	ErrDomainNotFound = errors.New("domain not found")
	// ErrInvoiceNotFound — счёт с указанным идентификатором не существует.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrMissingRequiredReference — счёт не ссылается ни на услугу, ни на домен.
	ErrMissingRequiredReference = errors.New("invoice must reference a service or a domain")
	// ErrMissingAmount — сумма не указана и не может быть выведена из услуги.
	ErrMissingAmount = errors.New("invoice amount is missing and no service is selected")
	// ErrOwnershipMismatch — услуга или домен принадлежат другому пользователю.
	ErrOwnershipMismatch = errors.New("referenced record belongs to another user")

	// ErrInvoiceImmutable — попытка изменить или удалить финализированный счёт.
	ErrInvoiceImmutable = errors.New("invoice is finalized and immutable")
	// ErrInvoiceNotFinal — документ запрошен для нефинализированного счёта.
	ErrInvoiceNotFinal = errors.New("invoice is not finalized")
	// ErrConcurrencyConflict — конкурирующая запись выиграла гонку; перечитайте состояние.
	ErrConcurrencyConflict = errors.New("concurrent modification detected")

	// ErrRenewalPriceRequired — флаг цены продления установлен, а сама цена отсутствует.
	ErrRenewalPriceRequired = errors.New("renewal price is required when has_renewal_price is set")
	// ErrRenewalPriceForbidden — цена продления передана без установленного флага.
	ErrRenewalPriceForbidden = errors.New("renewal price must be absent when has_renewal_price is not set")

	// ErrServiceReferenced — услугу нельзя удалить, пока на неё ссылается открытый счёт.
	ErrServiceReferenced = errors.New("service is referenced by an open invoice")
)

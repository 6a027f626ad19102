package models

import "time"

// Статусы зарегистрированного домена.
const (
	DomainStatusActive    = "active"
	DomainStatusPending   = "pending"
	DomainStatusSuspended = "suspended"
)

// Domain представляет зарегистрированное доменное имя,
// привязанное ровно к одной услуге и одному пользователю.
// RenewalPrice == nil означает, что отдельной цены продления нет;
// ненулевой указатель — цена продления задана. Третьего состояния не существует.
type Domain struct {
	ID              string    `json:"id"`                        // Уникальный идентификатор домена
	ServiceID       string    `json:"service_id"`                // Идентификатор услуги, к которой привязан домен
	UserUID         string    `json:"user_uid"`                  // Идентификатор владельца
	Name            string    `json:"name"`                      // Доменное имя (уникальное)
	PurchasedPrice  *int      `json:"purchased_price,omitempty"` // Цена покупки (опционально)
	RenewalPrice    *int      `json:"renewal_price,omitempty"`   // Цена продления (nil — продление по цене услуги)
	StartDate       time.Time `json:"start_date"`                // Дата регистрации
	NextRenewalDate time.Time `json:"next_renewal_date"`         // Дата следующего продления, StartDate + 1 год
	DomainStatus    string    `json:"domain_status"`             // Статус домена: active, pending или suspended
}

// HasRenewalPrice сообщает, задана ли у домена отдельная цена продления.
func (d *Domain) HasRenewalPrice() bool {
	return d.RenewalPrice != nil
}

// DummyDomain используется для приёма данных домена из JSON-запроса.
// Поля HasRenewalPrice и RenewalPrice связаны: цена обязана присутствовать
// тогда и только тогда, когда флаг установлен. Несогласованные комбинации
// отклоняются бизнес-логикой до записи в хранилище.
type DummyDomain struct {
	UserUID         string `json:"user_uid" validate:"required,uuid"`                  // Владелец домена
	ServiceID       string `json:"service_id" validate:"required,uuid"`                // Услуга, к которой привязан домен
	Name            string `json:"name" validate:"required,fqdn"`                      // Доменное имя
	StartDate       string `json:"start_date" validate:"required,datetime=02-01-2006"` // Дата регистрации в формате 02-01-2006
	PurchasedPrice  *int   `json:"purchased_price,omitempty" validate:"omitempty,gt=0"`
	HasRenewalPrice bool   `json:"has_renewal_price"` // Флаг отдельной цены продления
	RenewalPrice    *int   `json:"renewal_price,omitempty" validate:"omitempty,gt=0"`
	// DomainStatus учитывается только при обновлении; при создании домен всегда pending.
	DomainStatus string `json:"domain_status,omitempty" validate:"omitempty,oneof=active pending suspended"`
}

package models

import "time"

// Статусы счёта.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Invoice представляет счёт на оплату.
// Счёт всегда ссылается хотя бы на услугу или на домен.
// Финализированный счёт (IsFinal == true) всегда имеет статус paid,
// неизменяем и не может быть удалён.
type Invoice struct {
	ID            string     `json:"id"`                   // Уникальный идентификатор счёта
	UserUID       string     `json:"user_uid"`             // Идентификатор плательщика
	ServiceID     *string    `json:"service_id,omitempty"` // Идентификатор услуги (опционально)
	DomainID      *string    `json:"domain_id,omitempty"`  // Идентификатор домена (опционально)
	InvoiceNumber string     `json:"invoice_number"`       // Номер счёта, присваивается один раз при создании
	Amount        int        `json:"amount"`               // Сумма счёта (>0)
	Status        string     `json:"status"`               // Статус: pending, paid или overdue
	IsFinal       bool       `json:"is_final"`             // Признак финализации
	CreatedAt     time.Time  `json:"created_at"`           // Дата выставления
	DueDate       *time.Time `json:"due_date,omitempty"`   // Срок оплаты (опционально)
}

// DummyInvoice используется для приёма данных счёта из JSON-запроса.
// Amount может отсутствовать — тогда сумма берётся из цены выбранной услуги.
type DummyInvoice struct {
	UserUID   string  `json:"user_uid" validate:"required,uuid"`                    // Плательщик
	ServiceID *string `json:"service_id,omitempty" validate:"omitempty,uuid"`       // Услуга (опционально)
	DomainID  *string `json:"domain_id,omitempty" validate:"omitempty,uuid"`        // Домен (опционально)
	Amount    *int    `json:"amount,omitempty" validate:"omitempty,gt=0"`           // Явная сумма (опционально)
	IsFinal   bool    `json:"is_final"`                                             // Выставить сразу финализированным
	DueDate   string  `json:"due_date,omitempty" validate:"omitempty,datetime=02-01-2006"` // Срок оплаты в формате 02-01-2006
}

// DummyInvoicePatch используется для приёма изменений счёта из JSON-запроса.
// Применим только к нефинализированным счетам.
type DummyInvoicePatch struct {
	Amount  *int   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	DueDate string `json:"due_date,omitempty" validate:"omitempty,datetime=02-01-2006"`
}

// LifecycleInfo — проекция прогресса периода продления для отображения.
// Значения вычисляются на чтении и никогда не сохраняются.
type LifecycleInfo struct {
	ProgressPercent int `json:"progress_percent"` // Процент прошедшего периода, [0, 100]
	DaysRemaining   int `json:"days_remaining"`   // Дней до продления, не меньше 0
}

package models

import "time"

// Статусы хостинговой услуги.
const (
	PlanStatusActive    = "active"
	PlanStatusSuspended = "suspended"
)

// Service представляет купленную хостинговую услугу (тарифный план).
// Дата следующего продления вычисляется при создании как StartDate + 1 год
// и всегда позже CreatedAt.
type Service struct {
	ID              string    `json:"id"`                // Уникальный идентификатор услуги
	UserUID         string    `json:"user_uid"`          // Идентификатор владельца
	PlanName        string    `json:"plan_name"`         // Название тарифного плана
	Price           int       `json:"price"`             // Цена за период продления
	PanelType       string    `json:"panel_type"`        // Тип панели управления (cpanel, plesk и т.п.)
	PlanStatus      string    `json:"plan_status"`       // Статус услуги, active или suspended
	CreatedAt       time.Time `json:"created_at"`        // Дата создания записи
	StartDate       time.Time `json:"start_date"`        // Дата начала обслуживания
	NextRenewalDate time.Time `json:"next_renewal_date"` // Дата следующего продления
}

// DummyService используется для приёма данных услуги из JSON-запроса,
// прежде чем конвертировать их в Service.
// Даты приходят в виде строк, чтобы их можно было валидировать и парсить вручную.
type DummyService struct {
	UserUID   string `json:"user_uid" validate:"required,uuid"`                  // Владелец услуги
	PlanName  string `json:"plan_name" validate:"required"`                      // Название тарифа
	Price     int    `json:"price" validate:"required,gt=0"`                     // Цена (>0)
	PanelType string `json:"panel_type" validate:"required"`                     // Тип панели управления
	StartDate string `json:"start_date" validate:"required,datetime=02-01-2006"` // Дата начала в формате 02-01-2006
	// PlanStatus учитывается только при обновлении; при создании услуга всегда active.
	PlanStatus string `json:"plan_status,omitempty" validate:"omitempty,oneof=active suspended"`
}

package docrenderer

import "time"

// RenderRequest — данные финализированного счёта и связанных записей,
// которые ядро передаёт внешнему рендеру. Форматированием документа
// занимается рендер, ядро только собирает поля.
type RenderRequest struct {
	InvoiceNumber string     `json:"invoice_number"`
	Amount        int        `json:"amount"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	DueDate       *time.Time `json:"due_date,omitempty"`

	CustomerEmail    string `json:"customer_email"`
	CustomerFullName string `json:"customer_full_name"`

	ServicePlanName string `json:"service_plan_name,omitempty"`
	DomainName      string `json:"domain_name,omitempty"`
}

// Document — ответ рендера: ссылка на готовый документ.
type Document struct {
	DocumentID  string `json:"document_id"`
	DownloadURL string `json:"download_url"`
}

package rabbitmq

// Очереди биллинга.
//
// OverdueQueue потребляется самим порталом: внешние часы сроков оплаты
// публикуют в неё идентификаторы счетов с истёкшим due date.
// EventsQueue потребляют внешние отправители уведомлений.
const (
	OverdueQueue      = "invoice.overdue"
	OverdueRoutingKey = "invoice.overdue"

	EventsQueue      = "invoice.events"
	EventsRoutingKey = "invoice.event"
)

// BillingQueues возвращает конфигурацию всех очередей биллинга.
func BillingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: OverdueQueue, RoutingKey: OverdueRoutingKey},
		{QueueName: EventsQueue, RoutingKey: EventsRoutingKey},
	}
}

package rabbitmq

const (
	// BridgeExchange обменник входящих сообщений мобильного моста.
	BridgeExchange = "bridge"
	// BridgeQueue очередь, которую слушает диспетчер моста.
	BridgeQueue = "bridge.inbound"
	// NotificationsExchange обменник заданий на письма.
	NotificationsExchange = "notifications"
	// PurchaseQueue очередь писем с подтверждением покупки.
	PurchaseQueue = "notifications.purchase"
	// PurchaseRoutingKey ключ маршрутизации писем о покупке.
	PurchaseRoutingKey = "purchase"
)

// QueueConfig описывает очередь и ключ её привязки к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetBridgeQueues возвращает очереди обменника моста.
func GetBridgeQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BridgeQueue, RoutingKey: "inbound"},
	}
}

// GetNotificationQueues возвращает очереди обменника уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PurchaseQueue, RoutingKey: PurchaseRoutingKey},
	}
}

package factory

// Topic is the closed set of message categories the router understands.
type Topic int

const (
	TopicUnknown Topic = iota
	TopicDashboardOrder
	TopicFactoryStatus
	TopicNFCReader
	TopicWarehouseStock
)

var topicNames = map[Topic]string{
	TopicDashboardOrder: "dashboard/order",
	TopicFactoryStatus:  "factory/status",
	TopicNFCReader:      "nfc/reader",
	TopicWarehouseStock: "warehouse/stock",
}

// ParseTopic exact-matches s against the known topics.
func ParseTopic(s string) Topic {
	for t, name := range topicNames {
		if name == s {
			return t
		}
	}
	return TopicUnknown
}

func (t Topic) String() string {
	if name, ok := topicNames[t]; ok {
		return name
	}
	return "unknown"
}

// Topics lists the known topics in a stable order.
func Topics() []Topic {
	return []Topic{TopicDashboardOrder, TopicFactoryStatus, TopicNFCReader, TopicWarehouseStock}
}

package metrics

import (
	"time"

	"github.com/joeydtaylor/steeze-factory/pkg/factory"
)

// StoredStatus is the order status that counts a piece as stored.
const StoredStatus = "stored"

// DispatchObserver records routed messages. It implements factory.Observer.
type DispatchObserver struct {
	store *factory.Store
}

func NewDispatchObserver(s *factory.Store) *DispatchObserver {
	return &DispatchObserver{store: s}
}

func (o *DispatchObserver) Observe(t factory.Topic, _ factory.Message, resp factory.Response, elapsed time.Duration) {
	topic := t.String()
	messagesTotal.WithLabelValues(topic, string(resp.Outcome())).Inc()
	dispatchSeconds.WithLabelValues(topic).Observe(elapsed.Seconds())

	if resp.Outcome() != factory.OutcomeOK {
		return
	}
	switch t {
	case factory.TopicDashboardOrder:
		if resp.Order == nil || resp.Order.Color == nil {
			return
		}
		color := string(*resp.Order.Color)
		ordersProcessed.WithLabelValues(color).Inc()
		if s, ok := resp.Order.Status.(string); ok && s == StoredStatus {
			itemsStored.WithLabelValues(color).Inc()
		}
	case factory.TopicWarehouseStock:
		stockSlotsFilled.Set(float64(resp.Stock.Filled()))
	case factory.TopicNFCReader:
		if o.store != nil {
			nfcLogEntries.Set(float64(o.store.NfcLen()))
		}
	}
}

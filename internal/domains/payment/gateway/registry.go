package gateway

import (
	"petcare-backend/internal/domains/payment/model"
)

// Registry is the lookup table from payment method to adapter.
type Registry struct {
	gateways map[model.PaymentMethod]Gateway
	order    []model.PaymentMethod
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[model.PaymentMethod]Gateway, len(gateways))}
	for _, g := range gateways {
		r.Register(g)
	}
	return r
}

// Register adds or replaces the adapter for g.Method().
func (r *Registry) Register(g Gateway) {
	if _, exists := r.gateways[g.Method()]; !exists {
		r.order = append(r.order, g.Method())
	}
	r.gateways[g.Method()] = g
}

func (r *Registry) Get(method model.PaymentMethod) (Gateway, bool) {
	g, ok := r.gateways[method]
	return g, ok
}

// Detect finds the adapter that recognises a callback payload.
// Adapters are consulted in registration order.
func (r *Registry) Detect(payload map[string]string) (Gateway, bool) {
	for _, method := range r.order {
		if g := r.gateways[method]; g.Matches(payload) {
			return g, true
		}
	}
	return nil, false
}

func (r *Registry) Methods() []model.PaymentMethod {
	return append([]model.PaymentMethod(nil), r.order...)
}

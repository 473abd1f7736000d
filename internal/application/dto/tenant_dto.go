package dto

// CreateTenantRequest aprovisiona un tenant nuevo junto con su primer
// administrador.
type CreateTenantRequest struct {
	Name          string `json:"name"`
	Plan          string `json:"plan"`
	PlanPrice     string `json:"planPrice"`
	AdminName     string `json:"adminName"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

// TenantResponse es la proyección pública de un tenant.
type TenantResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Plan              string  `json:"plan"`
	PlanPrice         string  `json:"planPrice"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"paymentStatus"`
	SubscriptionStart string  `json:"subscriptionStart"`
	SubscriptionEnd   *string `json:"subscriptionEnd,omitempty"`
}

// UpdateTenantStatusRequest cambia el estado del ciclo de vida.
type UpdateTenantStatusRequest struct {
	Status string `json:"status"`
}

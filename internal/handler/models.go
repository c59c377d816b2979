package handler

import (
	"time"

	"github.com/dkochetov/storefront/internal/entities"
)

// User представление без хеша пароля
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Profile   string    `json:"profile,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func UserEntityToJSON(u entities.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Profile:   u.Profile,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"desc"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func CartItemEntityToJSON(c entities.CartItem) CartItem {
	item := CartItem{
		ID:        c.ID,
		UserID:    c.UserID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Product != nil {
		p := ProductEntityToJSON(*c.Product)
		item.Product = &p
	}
	return item
}

type CartSummary struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type ShippingDetails struct {
	FullName string `json:"fullName" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	ZipCode  string `json:"zipCode" validate:"required"`
}

type OrderItem struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Products        []OrderItem     `json:"products"`
	TotalAmount     float64         `json:"totalAmount"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          string          `json:"status"`
	ReturnStatus    string          `json:"returnStatus,omitempty"`
	ReturnReason    string          `json:"returnReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func OrderEntityToJSON(o entities.Order) Order {
	products := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		products = append(products, OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	return Order{
		ID:          o.ID,
		UserID:      o.UserID,
		Products:    products,
		TotalAmount: o.TotalAmount,
		ShippingDetails: ShippingDetails{
			FullName: o.ShippingDetails.FullName,
			Address:  o.ShippingDetails.Address,
			City:     o.ShippingDetails.City,
			State:    o.ShippingDetails.State,
			ZipCode:  o.ShippingDetails.ZipCode,
		},
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		ReturnStatus:  string(o.ReturnStatus),
		ReturnReason:  o.ReturnReason,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderEntityToJSON(o))
	}
	return result
}

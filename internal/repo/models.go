package repo

import (
	"database/sql"
	"time"

	"github.com/dkochetov/storefront/internal/entities"
)

type User struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Phone        sql.NullString `db:"phone"`
	PasswordHash string         `db:"password_hash"`
	Profile      sql.NullString `db:"profile"`
	Role         string         `db:"role"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func UserToEntity(u User) entities.User {
	return entities.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        nullStringToString(u.Phone),
		PasswordHash: u.PasswordHash,
		Profile:      nullStringToString(u.Profile),
		Role:         entities.Role(u.Role),
		Status:       entities.UserStatus(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type Product struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Price       float64   `db:"price"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Image       string    `db:"image"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Status:      entities.ProductStatus(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type CartItem struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func CartItemToEntity(c CartItem) entities.CartItem {
	return entities.CartItem{
		ID:        c.ID,
		UserID:    c.UserID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type Order struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	TotalAmount   float64        `db:"total_amount"`
	PaymentMethod string         `db:"payment_method"`
	Status        string         `db:"status"`
	ReturnStatus  sql.NullString `db:"return_status"`
	ReturnReason  sql.NullString `db:"return_reason"`
	ShipFullName  string         `db:"ship_full_name"`
	ShipAddress   string         `db:"ship_address"`
	ShipCity      string         `db:"ship_city"`
	ShipState     string         `db:"ship_state"`
	ShipZipCode   string         `db:"ship_zip_code"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type OrderItem struct {
	OrderID   string `db:"order_id"`
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
}

func OrderToEntity(o Order, items []OrderItem) entities.Order {
	order := entities.Order{
		ID:            o.ID,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: entities.PaymentMethod(o.PaymentMethod),
		Status:        entities.OrderStatus(o.Status),
		ReturnStatus:  entities.ReturnStatus(nullStringToString(o.ReturnStatus)),
		ReturnReason:  nullStringToString(o.ReturnReason),
		ShippingDetails: entities.ShippingDetails{
			FullName: o.ShipFullName,
			Address:  o.ShipAddress,
			City:     o.ShipCity,
			State:    o.ShipState,
			ZipCode:  o.ShipZipCode,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, entities.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
		}
	}

	return order
}

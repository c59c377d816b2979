package entities

import (
	"bytes"
	"encoding/gob"
	"time"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

type Product struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Category    string
	Image       string
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Product) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(p)
}

func init() {
	gob.Register(Product{})
}

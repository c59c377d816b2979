package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"
)

var (
	baseURL    = envOr("BASE_URL", "http://localhost:8080/api/v1")
	adminToken = os.Getenv("ADMIN_TOKEN")

	categories = []string{"electronics", "books", "clothing", "home", "sports"}
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if adminToken == "" {
		fmt.Println("ADMIN_TOKEN is required to seed products")
		os.Exit(1)
	}

	products := seedProducts(20)
	if len(products) == 0 {
		fmt.Println("no products seeded, aborting")
		os.Exit(1)
	}

	for i := 0; i < 5; i++ {
		token := registerAndLogin(i)
		if token == "" {
			continue
		}
		fillCart(token, products)
		placeOrder(token, products)
	}
}

type envelope struct {
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func post(path, token string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	fmt.Println("POST", path, "->", resp.Status)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	return env.Result, nil
}

type product struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func seedProducts(n int) []product {
	var products []product
	for i := 0; i < n; i++ {
		raw, err := post("/product/add", adminToken, map[string]any{
			"name":     fmt.Sprintf("Product %d", i+1),
			"price":    float64(rand.Intn(9900)+100) / 100,
			"desc":     "seeded product",
			"category": categories[rand.Intn(len(categories))],
		})
		if err != nil {
			fmt.Println("failed to seed product:", err)
			continue
		}

		var p product
		if err := json.Unmarshal(raw, &p); err == nil {
			products = append(products, p)
		}
	}
	return products
}

func registerAndLogin(i int) string {
	email := fmt.Sprintf("seed-%d-%d@example.com", time.Now().Unix(), i)
	_, err := post("/auth/register", "", map[string]any{
		"name":     fmt.Sprintf("Seed User %d", i),
		"email":    email,
		"password": "seedpassword123",
	})
	if err != nil {
		fmt.Println("failed to register:", err)
		return ""
	}

	raw, err := post("/auth/login", "", map[string]any{
		"email":    email,
		"password": "seedpassword123",
	})
	if err != nil {
		fmt.Println("failed to login:", err)
		return ""
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return ""
	}
	return out.Token
}

func fillCart(token string, products []product) {
	for i, n := 0, rand.Intn(3)+1; i < n; i++ {
		p := products[rand.Intn(len(products))]
		if _, err := post("/cart/add", token, map[string]any{"productId": p.ID}); err != nil {
			fmt.Println("failed to add to cart:", err)
		}
	}
}

func placeOrder(token string, products []product) {
	p := products[rand.Intn(len(products))]
	quantity := rand.Intn(3) + 1

	subtotal := p.Price * float64(quantity)
	total := subtotal * 1.18

	_, err := post("/order/add", token, map[string]any{
		"products":    []map[string]any{{"productId": p.ID, "quantity": quantity}},
		"totalAmount": total,
		"shippingDetails": map[string]any{
			"fullName": "Seed User",
			"address":  "1 Seed Street",
			"city":     "Pune",
			"state":    "MH",
			"zipCode":  "411001",
		},
		"paymentMethod": "cash",
	})
	if err != nil {
		fmt.Println("failed to place order:", err)
	}
}

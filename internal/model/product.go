package model

import (
	"time"
)

// Product is a catalog item offered through the chat agent.
type Product struct {
	ID           string    `json:"product_id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	RegularPrice *float64  `json:"regular_price,omitempty"`
	Description  string    `json:"description"`
	Colors       []string  `json:"colors"`
	Sizes        []string  `json:"sizes"`
	Stock        int       `json:"stock"`
	Images       []string  `json:"images"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductInput is the admin create/replace payload.
type ProductInput struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	RegularPrice *float64 `json:"regular_price,omitempty"`
	Description  string   `json:"description"`
	Colors       []string `json:"colors"`
	Sizes        []string `json:"sizes"`
	Stock        int      `json:"stock"`
	Images       []string `json:"images"`
	Active       *bool    `json:"active,omitempty"`
}

// Apply copies every input field onto p. Active defaults to true when omitted.
func (in *ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.RegularPrice = in.RegularPrice
	p.Description = in.Description
	p.Colors = nonNil(in.Colors)
	p.Sizes = nonNil(in.Sizes)
	p.Stock = in.Stock
	p.Images = nonNil(in.Images)
	p.Active = true
	if in.Active != nil {
		p.Active = *in.Active
	}
}

// FirstImage returns the first image reference, if any.
func (p *Product) FirstImage() (string, bool) {
	if len(p.Images) == 0 {
		return "", false
	}
	return p.Images[0], true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

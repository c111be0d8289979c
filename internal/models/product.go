// Package models defines the domain entities of the catalog service.
package models

// Product represents a single catalog item. The ID is assigned by the
// store on creation and is immutable afterwards.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// CreateProduct is the payload for creating a product. Description and
// Stock are optional and default to the zero value; Name, Price and
// Category are validated by the store.
type CreateProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// UpdateProduct is the payload for a partial update. Nil fields are left
// untouched; supplied fields are validated before being applied.
type UpdateProduct struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

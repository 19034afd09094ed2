package transport

import "github.com/Skotchmaster/shop_admin/internal/models"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type MeUser struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type MeResponse struct {
	User MeUser `json:"user"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"          validate:"required,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price"         validate:"gte=0"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Tag         string  `json:"tag"`
	ImageURL    string  `json:"image_url"     validate:"omitempty,url"`
	SpecFileURL string  `json:"spec_file_url" validate:"omitempty,url"`
	Status      string  `json:"status"        validate:"omitempty,oneof=active sold_out"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"          validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"         validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Tag         *string  `json:"tag"`
	ImageURL    *string  `json:"image_url"     validate:"omitempty,url"`
	SpecFileURL *string  `json:"spec_file_url" validate:"omitempty,url"`
	Status      *string  `json:"status"        validate:"omitempty,oneof=active sold_out"`
}

type ProductsPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Pages int              `json:"pages"`
}

type SiteConfigRequest struct {
	WhatsApp *string `json:"whatsapp" validate:"required"`
}

type MaintenanceRequest struct {
	Maintenance *bool `json:"maintenance" validate:"required"`
}

type MaintenanceResponse struct {
	Maintenance bool `json:"maintenance"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type TagRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=32"`
}

type TagColorRequest struct {
	Color string `json:"color" validate:"required,max=32"`
}

type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Path    string `json:"path,omitempty"`
}

// Package docs собирает OpenAPI-документ сервера.
//
// Документ = статический дескриптор (NewDescriptor) + yaml-фрагменты
// с описанием маршрутов (annotations/*.yaml и, опционально, каталог из
// конфига). Битый фрагмент пропускается и возвращается как ошибка,
// сборка документа из-за него не падает.
package docs

import "fmt"

// OpenAPIVersion — версия спецификации OpenAPI документа.
const OpenAPIVersion = "3.0.0"

// Contact — контакт в info.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Info — блок info документа.
type Info struct {
	Title       string  `json:"title"`
	Version     string  `json:"version"`
	Description string  `json:"description,omitempty"`
	Contact     Contact `json:"contact"`
}

// Server — адрес, на котором доступно API.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// SecurityScheme — схема аутентификации.
type SecurityScheme struct {
	Type         string `json:"type"`
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearerFormat,omitempty"`
}

// Schema — описание формы записи. Только для документации, запросы
// по ней не валидируются.
type Schema struct {
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
}

// Components — переиспользуемые части документа.
type Components struct {
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes"`
	Schemas         map[string]*Schema        `json:"schemas"`
}

// Tag — группа операций.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Descriptor — статическая часть документа.
type Descriptor struct {
	OpenAPI    string                `json:"openapi"`
	Info       Info                  `json:"info"`
	Servers    []Server              `json:"servers"`
	Components Components            `json:"components"`
	Security   []map[string][]string `json:"security"`
	Tags       []Tag                 `json:"tags"`
}

func str(desc string) *Schema { return &Schema{Type: "string", Description: desc} }
func num(desc string) *Schema { return &Schema{Type: "number", Description: desc} }

// NewDescriptor возвращает дескриптор API для baseURL.
// envLabel попадает в описание сервера: "<env> server".
func NewDescriptor(baseURL, envLabel string) Descriptor {
	if envLabel == "" {
		envLabel = "development"
	}
	return Descriptor{
		OpenAPI: OpenAPIVersion,
		Info: Info{
			Title:       "JSON Server Auth API",
			Version:     "1.0.0",
			Description: "A comprehensive REST API with authentication using json-server-auth",
			Contact:     Contact{Name: "API Support", Email: "support@yourapi.com"},
		},
		Servers: []Server{{URL: baseURL, Description: fmt.Sprintf("%s server", envLabel)}},
		Components: Components{
			SecuritySchemes: map[string]SecurityScheme{
				"bearerAuth": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
			},
			Schemas: map[string]*Schema{
				"User": {
					Type: "object",
					Properties: map[string]*Schema{
						"id":       {Type: "integer", Description: "The auto-generated id of the user"},
						"email":    str("The user's email"),
						"password": str("The user's password (hashed)"),
						"role":     str("User's role (admin/user)"),
					},
				},
				"Book": {
					Type: "object",
					Properties: map[string]*Schema{
						"id":   str("The book's ID"),
						"name": str("The book's title"),
						"authors": {
							Type: "array",
							Items: &Schema{
								Type: "object",
								Properties: map[string]*Schema{
									"id":   {Type: "integer"},
									"name": {Type: "string"},
									"slug": {Type: "string"},
								},
							},
						},
						"description":       str("Book description"),
						"original_price":    num("Original price of the book"),
						"list_price":        num("List price of the book"),
						"rating_average":    num("Average rating"),
						"short_description": str("Short description of the book"),
					},
				},
				"Product": {
					Type: "object",
					Properties: map[string]*Schema{
						"id":            str("The product's ID"),
						"name":          str("The product's name"),
						"createdAt":     {Type: "string", Format: "date-time", Description: "Creation date"},
						"image":         str("Product image URL"),
						"originalPrice": str("Original price of the product"),
						"description":   str("Product description"),
					},
				},
				"Category": {
					Type: "object",
					Properties: map[string]*Schema{
						"id":        str("The category's ID"),
						"name":      str("The category's name"),
						"createdAt": {Type: "string", Format: "date-time", Description: "Creation date"},
					},
				},
				"Error": {
					Type: "object",
					Properties: map[string]*Schema{
						"message": str("Error message"),
					},
				},
			},
		},
		Security: []map[string][]string{{"bearerAuth": {}}},
		Tags: []Tag{
			{Name: "Auth", Description: "Authentication endpoints"},
			{Name: "Users", Description: "User management endpoints"},
			{Name: "Books", Description: "Book management endpoints"},
			{Name: "Products", Description: "Product management endpoints"},
			{Name: "Categories", Description: "Category management endpoints"},
		},
	}
}

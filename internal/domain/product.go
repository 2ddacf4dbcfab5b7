package domain

import (
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHome        Category = "Home"
	CategorySports      Category = "Sports"
	CategoryOther       Category = "Other"
)

var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHome,
	CategorySports,
	CategoryOther,
}

// MaxStock is the largest stock or cart quantity the store can hold.
const MaxStock = math.MaxInt32

const (
	maxNameLen        = 200
	maxDescriptionLen = 2000
	maxRating         = 5
)

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", validationError("category %q is not one of %v", s, Categories)
}

type Product struct {
	ID             ProductID
	Name           string
	Description    string
	Price          Money
	Category       Category
	ImageURL       string
	Images         []string
	Stock          int
	Rating         float64
	Specifications map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// Validate checks the catalog constraints a product must satisfy before it is stored.
func (p Product) Validate() error {
	if _, err := ParseProductID(string(p.ID)); err != nil {
		return err
	}

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return validationError("product name is required")
	case utf8.RuneCountInString(name) > maxNameLen:
		return validationError("name cannot exceed %d characters", maxNameLen)
	}

	description := strings.TrimSpace(p.Description)
	switch {
	case description == "":
		return validationError("product description is required")
	case utf8.RuneCountInString(description) > maxDescriptionLen:
		return validationError("description cannot exceed %d characters", maxDescriptionLen)
	}

	if err := p.Price.Validate(); err != nil {
		return err
	}
	if _, err := ParseCategory(string(p.Category)); err != nil {
		return err
	}
	if !isHTTPURL(p.ImageURL) {
		return validationError("please provide a valid image URL")
	}
	switch {
	case p.Stock < 0:
		return validationError("stock cannot be negative")
	case p.Stock > MaxStock:
		return validationError("stock cannot exceed %d", MaxStock)
	}
	if p.Rating < 0 || p.Rating > maxRating {
		return validationError("rating must be between 0 and %d", maxRating)
	}
	return nil
}

// ProductPatch is a partial update: nil fields are left untouched.
type ProductPatch struct {
	Name           *string
	Description    *string
	Price          *Money
	Category       *Category
	ImageURL       *string
	Images         []string
	Stock          *int
	Rating         *float64
	Specifications map[string]string
}

func (pp ProductPatch) IsEmpty() bool {
	return pp.Name == nil && pp.Description == nil && pp.Price == nil && pp.Category == nil &&
		pp.ImageURL == nil && pp.Images == nil && pp.Stock == nil && pp.Rating == nil &&
		pp.Specifications == nil
}

// Apply returns p with the patch merged in and re-validated.
func (pp ProductPatch) Apply(p Product) (Product, error) {
	if pp.Name != nil {
		p.Name = strings.TrimSpace(*pp.Name)
	}
	if pp.Description != nil {
		p.Description = strings.TrimSpace(*pp.Description)
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.Images != nil {
		p.Images = append([]string(nil), pp.Images...)
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.Rating != nil {
		p.Rating = *pp.Rating
	}
	if pp.Specifications != nil {
		p.Specifications = make(map[string]string, len(pp.Specifications))
		for k, v := range pp.Specifications {
			p.Specifications[k] = v
		}
	}

	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ProductSort is a whitelisted list ordering key.
type ProductSort string

const (
	SortCreatedAt ProductSort = "createdAt"
	SortUpdatedAt ProductSort = "updatedAt"
	SortPrice     ProductSort = "price"
	SortName      ProductSort = "name"
	SortStock     ProductSort = "stock"
	SortRating    ProductSort = "rating"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type ProductFilter struct {
	Page      int
	Limit     int
	Category  string
	Sort      ProductSort
	Ascending bool
}

// NewProductFilter normalizes raw list parameters: non-positive page or limit fall back
// to the defaults, limit is capped, unknown sort keys sort by creation time.
func NewProductFilter(page, limit int, category, sort, order string) ProductFilter {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	s := ProductSort(sort)
	switch s {
	case SortCreatedAt, SortUpdatedAt, SortPrice, SortName, SortStock, SortRating:
	default:
		s = SortCreatedAt
	}

	return ProductFilter{
		Page:      page,
		Limit:     limit,
		Category:  strings.TrimSpace(category),
		Sort:      s,
		Ascending: order == "asc",
	}
}

func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type ProductPage struct {
	Products   []Product
	TotalItems int
	Page       int
	Limit      int
}

func (pp ProductPage) TotalPages() int {
	if pp.Limit <= 0 {
		return 0
	}
	return (pp.TotalItems + pp.Limit - 1) / pp.Limit
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

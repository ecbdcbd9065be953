package domain

import (
	"slices"
	"time"
)

// University identifies one of the supported campuses.
type University string

const (
	UniversityMUBAS        University = "MUBAS"
	UniversityLUANAR       University = "LUANAR"
	UniversityMZUNI        University = "MZUNI"
	UniversityUNIMA        University = "UNIMA"
	UniversityMUST         University = "MUST"
	UniversityCatholic     University = "Catholic University (CU)"
	UniversityLivingstonia University = "Livingstonia"
	UniversityMAGU         University = "MAGU"
)

// Universities lists every accepted campus in display order.
var Universities = []University{
	UniversityMUBAS,
	UniversityLUANAR,
	UniversityMZUNI,
	UniversityUNIMA,
	UniversityMUST,
	UniversityCatholic,
	UniversityLivingstonia,
	UniversityMAGU,
}

// Category is the listing category shown in the catalogue filters.
type Category string

const (
	CategoryFood        Category = "Food & Snacks"
	CategoryFashion     Category = "Fashion & Clothing"
	CategoryAcademic    Category = "Academic Services"
	CategoryElectronics Category = "Electronics & Gadgets"
	CategoryBeauty      Category = "Beauty & Personal Care"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryFashion,
	CategoryAcademic,
	CategoryElectronics,
	CategoryBeauty,
}

func IsUniversity(s string) bool {
	return slices.Contains(Universities, University(s))
}

func IsCategory(s string) bool {
	return slices.Contains(Categories, Category(s))
}

// Seller is a business profile keyed by the identity provider's subject id.
type Seller struct {
	UID          string    `json:"uid" db:"uid"`
	Email        string    `json:"email" db:"email"`
	BusinessName string    `json:"business_name" db:"business_name"`
	BusinessLogo string    `json:"business_logo" db:"business_logo"`
	University   string    `json:"university" db:"university"`
	Bio          *string   `json:"bio" db:"bio"`
	IsVerified   bool      `json:"is_verified" db:"is_verified"`
	JoinDate     time.Time `json:"join_date" db:"join_date"`
}

// Listing is an item or service posted by exactly one seller.
type Listing struct {
	ID             int64     `json:"id" db:"id"`
	SellerUID      string    `json:"seller_uid" db:"seller_uid"`
	Name           string    `json:"name" db:"name"`
	Price          float64   `json:"price" db:"price"`
	Description    *string   `json:"description" db:"description"`
	Category       string    `json:"category" db:"category"`
	University     string    `json:"university" db:"university"`
	Photos         []string  `json:"photos" db:"photos"`
	WhatsappNumber string    `json:"whatsapp_number" db:"whatsapp_number"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ListingView is a listing joined with the public fields of its seller.
type ListingView struct {
	Listing
	BusinessName string `json:"business_name" db:"business_name"`
	BusinessLogo string `json:"business_logo" db:"business_logo"`
	IsVerified   bool   `json:"is_verified" db:"is_verified"`
}

// Report flags a listing for moderation. Reports are append-only.
type Report struct {
	ID        int64     `json:"id" db:"id"`
	ListingID int64     `json:"listing_id" db:"listing_id"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

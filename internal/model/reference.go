package model

// Reference is a row in one of the lookup tables (categories, genders,
// seasons, brands, sizes). Description is only persisted for categories and
// OriginCountry only for brands; the other kinds leave them nil.
type Reference struct {
	BaseModel
	Name          string  `db:"name" json:"name"`
	Description   *string `db:"description" json:"description,omitempty"`
	OriginCountry *string `db:"origin_country" json:"origin_country,omitempty"`
}

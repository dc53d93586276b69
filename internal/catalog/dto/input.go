package dto

type CreateReferenceInput struct {
	Name          string
	Description   string // categories only
	OriginCountry string // brands only
}

type UpdateReferenceInput struct {
	ID            string
	Name          string
	Description   string
	OriginCountry string
}

package domain

import "strings"

const (
	categoryNameMinLen = 2
	categoryNameMaxLen = 50
	descriptionMaxLen  = 500
)

// Category — товарная категория. Удаление запрещено, пока в категории
// остаются товары (ссылочная целостность на стороне хранилища).
type Category struct {
	ID          string
	Name        string
	Description string
}

// Validate проверяет ограничения на имя и описание категории.
func (c *Category) Validate() []error {
	var errs []error

	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		errs = append(errs, ErrNameRequired)
	case len(name) < categoryNameMinLen || len(name) > categoryNameMaxLen:
		errs = append(errs, ErrCategoryNameLength)
	}

	if len(c.Description) > descriptionMaxLen {
		errs = append(errs, ErrDescriptionTooLong)
	}

	return errs
}

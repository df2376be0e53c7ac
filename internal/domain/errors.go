package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerNotFound возвращается, если клиент не найден в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCategoryNotFound возвращается, если категория не найдена.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound возвращается, если товар не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")

	// Ошибка при некорректном количестве товара (<= 0) в запросе на создание заказа.
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка, если один и тот же товар встречается в запросе дважды.
	ErrDuplicateProduct = errors.New("duplicate product in order items")
	// Ошибка отсутствия хотя бы одной позиции в запросе на заказ.
	ErrItemsRequired = errors.New("order must contain at least one item")

	// Ошибка отсутствующего имени клиента/категории/товара.
	ErrNameRequired = errors.New("name is required")
	// Ошибка длины имени категории (2–50 символов).
	ErrCategoryNameLength = errors.New("category name must be between 2 and 50 characters")
	// Ошибка длины имени товара (2–100 символов).
	ErrProductNameLength = errors.New("product name must be between 2 and 100 characters")
	// Ошибка слишком длинного описания категории (> 500 символов).
	ErrDescriptionTooLong = errors.New("description cannot exceed 500 characters")
	// Ошибка некорректной цены товара (<= 0).
	ErrPriceInvalid = errors.New("unit price must be greater than zero")
	// Ошибка отрицательного остатка.
	ErrStockNegative = errors.New("stock cannot be negative")
	// Ошибка отсутствующего или некорректного e-mail.
	ErrEmailInvalid = errors.New("valid email is required")

	// ErrEmailTaken — нарушение уникальности e-mail клиента.
	ErrEmailTaken = errors.New("customer email already in use")
	// ErrCategoryNameTaken — нарушение уникальности имени категории.
	ErrCategoryNameTaken = errors.New("category with this name already exists")
	// ErrCategoryHasProducts — попытка удалить категорию, в которой есть товары.
	ErrCategoryHasProducts = errors.New("category still has products")
	// ErrProductReferenced — попытка удалить товар, на который ссылаются позиции заказов.
	ErrProductReferenced = errors.New("product is referenced by existing orders")
)

// InsufficientStockError сообщает о нехватке остатка: какой товар,
// сколько доступно и сколько запрошено.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int32
	Requested   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// IsNotFound проверяет, относится ли ошибка к группе "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsValidation проверяет, относится ли ошибка к нарушениям входной валидации.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrQuantityInvalid, ErrDuplicateProduct, ErrItemsRequired,
		ErrNameRequired, ErrCategoryNameLength, ErrProductNameLength,
		ErrDescriptionTooLong, ErrPriceInvalid, ErrStockNegative, ErrEmailInvalid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict проверяет, относится ли ошибка к нарушениям уникальности
// или ссылочной целостности.
func IsConflict(err error) bool {
	for _, target := range []error{
		ErrEmailTaken, ErrCategoryNameTaken, ErrCategoryHasProducts, ErrProductReferenced,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsInsufficientStock проверяет, является ли ошибка нехваткой остатка.
func IsInsufficientStock(err error) bool {
	var insufficientErr *InsufficientStockError
	return errors.As(err, &insufficientErr)
}

package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Postgres error classes, see the pq documentation.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is the parsed result: a code constant plus a message safe
// to show the caller.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps a gorm/database error to a response code and message
// without leaking internals. context is a short hint like "product" or
// "order create" used to pick a more specific message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Typed postgres errors first, string sniffing as fallback for the
	// sqlite test driver.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseDuplicateKey(pqErr.Constraint + " " + pqErr.Detail)
		case pgForeignKeyViolation:
			return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record does not exist"}
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
		}
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return parseDuplicateKey(errStr)
	}
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record does not exist"}
	}
	if strings.Contains(errStr, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An external service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

// ParseAndRespond parses a database error and writes the response.
// fallbackStatus is used unless the parsed code implies a better one.
func ParseAndRespond(c *gin.Context, fallbackStatus int, err error, context string) {
	info := ParseError(err, context)

	status := fallbackStatus
	switch info.Code {
	case ResourceNotFound:
		status = http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, AuthEmailAlreadyExists, CatalogSlugExists:
		status = http.StatusConflict
	case ValidationRequired, ValidationInvalidInput:
		status = http.StatusBadRequest
	}

	RespondWithError(c, status, info.Code, info.Message)
}

func parseDuplicateKey(detail string) ErrorInfo {
	detail = strings.ToLower(detail)

	if strings.Contains(detail, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already registered"}
	}
	if strings.Contains(detail, "slug") {
		return ErrorInfo{Code: CatalogSlugExists, Message: "This slug is already in use"}
	}
	if strings.Contains(detail, "cart_line_identity") {
		return ErrorInfo{Code: ResourceConflict, Message: "This item is already in the cart"}
	}
	if strings.Contains(detail, "order_number") {
		return ErrorInfo{Code: ResourceConflict, Message: "Order number collision, please retry"}
	}

	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
}

func notFoundMessage(context string) string {
	context = strings.ToLower(context)

	switch {
	case strings.Contains(context, "product"):
		return "Product not found"
	case strings.Contains(context, "variant"):
		return "Weight variant not found"
	case strings.Contains(context, "category"):
		return "Category not found"
	case strings.Contains(context, "store"):
		return "Store not found"
	case strings.Contains(context, "unit"):
		return "Unit not found"
	case strings.Contains(context, "customer"):
		return "Customer not found"
	case strings.Contains(context, "cake"):
		return "Cake order not found"
	case strings.Contains(context, "cart"):
		return "Cart item not found"
	case strings.Contains(context, "order"):
		return "Order not found"
	case strings.Contains(context, "user"):
		return "User not found"
	}
	return "Requested record not found"
}

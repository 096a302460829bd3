package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/guild_economy/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerValidatorsOnce sync.Once
	registerValidatorsErr  error
)

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() error {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerValidatorsErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("ledgerscope", validateLedgerScope); err != nil {
			registerValidatorsErr = fmt.Errorf("failed to register ledgerscope validation: %w", err)
		}
	})
	return registerValidatorsErr
}

// validateLedgerScope accepts the scope kinds a caller may name: "community" or "global".
func validateLedgerScope(fl validator.FieldLevel) bool {
	switch domain.ScopeKind(fl.Field().String()) {
	case domain.ScopeCommunity, domain.ScopeGlobal:
		return true
	}
	return false
}

package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	AppKey       ContextKey = "app"
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "requestStart"
	TxKey        ContextKey = "tx"
	PoolKey      ContextKey = "pool"
	ParamsKey    ContextKey = "params"
	SessionKey   ContextKey = "adminSession"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())

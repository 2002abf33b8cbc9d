package account

import (
	"fmt"
	"strings"
)

// Format defines the environment variable names for an account on an exchange.
type Format struct {
	user     Name
	exchange ExchangeName
}

func NewFormat(user Name, exchange ExchangeName) Format {
	return Format{
		user:     user,
		exchange: exchange,
	}
}

func (f Format) Key() string {
	return strings.ToUpper(fmt.Sprintf("%s_%s_KEY", f.user, f.exchange))
}

func (f Format) Secret() string {
	return strings.ToUpper(fmt.Sprintf("%s_%s_SECRET", f.user, f.exchange))
}

package model

// Converter encapsulates all conversion logic for the binance futures exchange.
type Converter struct {
	Symbol    SymbolConverter
	Side      SideConverter
	OrderType OrderTypeConverter
	Margin    MarginConverter
	Time      TimeConverter
}

// NewConverter creates a new converter.
func NewConverter() Converter {
	return Converter{
		Symbol:    Symbol(),
		Side:      Side(),
		OrderType: OrderType(),
		Margin:    Margin(),
		Time:      Time(),
	}
}

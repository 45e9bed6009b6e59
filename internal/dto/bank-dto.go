package dto

// BankSearchDTO: короче двух символов — пустой список, не ошибка.
type BankSearchDTO struct {
	Query string `query:"q" validate:"max=200"`
}

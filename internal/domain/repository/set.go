package repository

// Set agrupa los repositorios de un backend. Un TxRunner entrega un Set atado a su transacción.
type Set struct {
	Articles  ArticleRepository
	Clients   ClientRepository
	Suppliers SupplierRepository
	Lots      LotRepository
	Sales     SaleRepository
	Debts     DebtRepository
	Payments  PaymentRepository
	Relances  RelanceRepository
}

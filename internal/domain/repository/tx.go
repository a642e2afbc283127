package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Brands    BrandRepository
	Models    ModelRepository
	Products  ProductRepository
	Shops     ShopRepository
	Stock     StockRepository
	Alerts    StockAlertRepository
	Deletions DeletionRequestRepository
	Archive   ArchiveRepository
	Users     UserRepository
}

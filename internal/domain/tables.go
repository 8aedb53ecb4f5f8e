package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	&SysScheduler{},
	// Catalog
	&Category{},
	&Supplier{},
	&Product{},
	// Orders
	&Order{},
	&OrderItem{},
}

package airtable

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/pkg/config"
)

// tableNames nombres reales de las tablas (admiten override por configuración).
type tableNames struct {
	articles, clients, suppliers, lots, lotLines, sales, saleLines, debts, payments, relances string
}

func resolveTables(cfg config.AirtableConfig) tableNames {
	return tableNames{
		articles:  cfg.Table("Articles"),
		clients:   cfg.Table("Clients"),
		suppliers: cfg.Table("Fournisseurs"),
		lots:      cfg.Table("Lots"),
		lotLines:  cfg.Table("Lignes_Lot"),
		sales:     cfg.Table("Ventes"),
		saleLines: cfg.Table("Lignes_Vente"),
		debts:     cfg.Table("Dettes"),
		payments:  cfg.Table("Paiements"),
		relances:  cfg.Table("Relances"),
	}
}

// Store backend de registros sobre Airtable.
type Store struct {
	records Records
	tables  tableNames
	log     zerolog.Logger
}

// NewStore crea el backend sobre el cliente dado.
func NewStore(records Records, cfg config.AirtableConfig, log zerolog.Logger) *Store {
	return &Store{records: records, tables: resolveTables(cfg), log: log}
}

// Repositories repositorios sin unidad de trabajo (lecturas).
func (s *Store) Repositories() repository.Set {
	return s.set(s.records)
}

func (s *Store) set(rec Records) repository.Set {
	t := s.tables
	return repository.Set{
		Articles:  &ArticleRepo{rec: rec, table: t.articles},
		Clients:   &ClientRepo{rec: rec, table: t.clients},
		Suppliers: &SupplierRepo{rec: rec, table: t.suppliers},
		Lots:      &LotRepo{rec: rec, table: t.lots, lines: t.lotLines},
		Sales:     &SaleRepo{rec: rec, table: t.sales, lines: t.saleLines},
		Debts:     &DebtRepo{rec: rec, table: t.debts, log: s.log},
		Payments:  &PaymentRepo{rec: rec, table: t.payments},
		Relances:  &RelanceRepo{rec: rec, table: t.relances},
	}
}

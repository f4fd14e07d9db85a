package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/ragcore/internal/core/domain"
	"github.com/custodia-labs/ragcore/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RecordSource = (*RecordSource)(nil)

// transactionWindow bounds how many recent transactions are indexed
const transactionWindow = 1000

// RecordSource extracts operational rows and synthesizes each into one
// natural-language sentence ready for embedding. The joins and phrasing live
// here; the pipeline only sees finished Documents.
type RecordSource struct {
	db *DB
}

// NewRecordSource creates a new postgres-backed RecordSource
func NewRecordSource(db *DB) *RecordSource {
	return &RecordSource{db: db}
}

// FetchAll returns every document eligible for indexing: all products,
// customers, and suppliers, plus the most recent transactions
func (r *RecordSource) FetchAll(ctx context.Context) ([]*domain.Document, error) {
	var docs []*domain.Document

	products, err := r.fetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	docs = append(docs, products...)

	customers, err := r.fetchCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	docs = append(docs, customers...)

	suppliers, err := r.fetchSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suppliers: %w", err)
	}
	docs = append(docs, suppliers...)

	transactions, err := r.fetchTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	docs = append(docs, transactions...)

	return docs, nil
}

func (r *RecordSource) fetchProducts(ctx context.Context) ([]*domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.product_id, p.name, p.description, p.qty_stock, p.price,
		       c.cname AS category_name, s.company_name AS supplier_name
		FROM product p
		LEFT JOIN category c ON p.category_id = c.category_id
		LEFT JOIN supplier s ON p.supplier_id = s.supplier_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var (
			id           int
			name         string
			description  sql.NullString
			qtyStock     int
			price        float64
			categoryName sql.NullString
			supplierName sql.NullString
		)
		if err := rows.Scan(&id, &name, &description, &qtyStock, &price, &categoryName, &supplierName); err != nil {
			return nil, err
		}

		docs = append(docs, &domain.Document{
			Type:     domain.DocumentTypeProduct,
			SourceID: id,
			Content: fmt.Sprintf("Product %s (ID: %d) is a %s item supplied by %s. Description: %s. Current stock: %d, Price: $%.2f",
				name, id, orUnknown(categoryName), orUnknown(supplierName), orUnknown(description), qtyStock, price),
		})
	}
	return docs, rows.Err()
}

func (r *RecordSource) fetchCustomers(ctx context.Context) ([]*domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cust_id, first_name, last_name, phone_number
		FROM customer`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var (
			id                  int
			firstName, lastName string
			phone               sql.NullString
		)
		if err := rows.Scan(&id, &firstName, &lastName, &phone); err != nil {
			return nil, err
		}

		docs = append(docs, &domain.Document{
			Type:     domain.DocumentTypeCustomer,
			SourceID: id,
			Content: fmt.Sprintf("Customer %s %s (ID: %d) Contact: %s",
				firstName, lastName, id, orUnknown(phone)),
		})
	}
	return docs, rows.Err()
}

func (r *RecordSource) fetchSuppliers(ctx context.Context) ([]*domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.supplier_id, s.company_name, s.phone_number, l.province, l.city
		FROM supplier s
		LEFT JOIN location l ON s.location_id = l.location_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var (
			id             int
			companyName    string
			phone          sql.NullString
			province, city sql.NullString
		)
		if err := rows.Scan(&id, &companyName, &phone, &province, &city); err != nil {
			return nil, err
		}

		docs = append(docs, &domain.Document{
			Type:     domain.DocumentTypeSupplier,
			SourceID: id,
			Content: fmt.Sprintf("Supplier %s (ID: %d) is located in %s, %s. Contact: %s",
				companyName, id, orUnknown(city), orUnknown(province), orUnknown(phone)),
		})
	}
	return docs, rows.Err()
}

func (r *RecordSource) fetchTransactions(ctx context.Context) ([]*domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.trans_id, t.date, t.grandtotal,
		       td.products, td.qty, td.price AS item_price, td.employee, td.role,
		       c.first_name, c.last_name
		FROM transaction t
		JOIN transaction_details td ON t.trans_d_id = td.trans_d_id
		JOIN customer c ON t.cust_id = c.cust_id
		ORDER BY t.trans_id DESC
		LIMIT $1`, transactionWindow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var (
			id                  int
			date                string
			grandTotal          float64
			products            string
			qty                 int
			itemPrice           float64
			employee, role      sql.NullString
			firstName, lastName string
		)
		if err := rows.Scan(&id, &date, &grandTotal, &products, &qty, &itemPrice,
			&employee, &role, &firstName, &lastName); err != nil {
			return nil, err
		}

		docs = append(docs, &domain.Document{
			Type:     domain.DocumentTypeTransaction,
			SourceID: id,
			Content: fmt.Sprintf("Transaction (ID: %d) by customer %s %s for product %s quantity: %d, price: $%.2f, total: $%.2f, date: %s, processed by %s (%s)",
				id, firstName, lastName, products, qty, itemPrice, grandTotal, date,
				orUnknown(employee), orUnknown(role)),
		})
	}
	return docs, rows.Err()
}

// HealthCheck verifies the data source is reachable
func (r *RecordSource) HealthCheck(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases the underlying connection pool
func (r *RecordSource) Close() error {
	return r.db.Close()
}

func orUnknown(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return "unknown"
	}
	return s.String
}

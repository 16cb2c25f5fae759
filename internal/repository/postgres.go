// Package repository contiene la implementación de planilla y padrón sobre
// PostgreSQL, usada cuando el servicio no escribe en Google Sheets.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/edicionesgcc/poblar-ventas/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrCustomerExists se devuelve cuando el nombre ya está en el padrón.
	ErrCustomerExists = errors.New("customer already exists")
	// ErrNoExchangeRate se devuelve cuando la tabla de cotización no tiene
	// un valor válido para el dólar.
	ErrNoExchangeRate = errors.New("invalid or missing dollar rate")
)

// Moneda cuya cotización se consulta para convertir precios a pesos.
const usdCurrency = "U$S"

// PostgresRepository implementa la planilla de ventas y el padrón de clientes
// sobre PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository crea el repositorio e inicializa el esquema con las
// migraciones embebidas.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close cierra el pool de conexiones.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// AppendSale agrega una fila de venta.
func (r *PostgresRepository) AppendSale(ctx context.Context, row model.SaleRow) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ventas
		   (numero_pedido, cliente, cantidad, articulo, precio_unitario, descuento, fecha_pedido, envio, medio_pago)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.OrderNumber, row.CustomerName, row.Quantity, row.ItemName,
		row.PricePerUnit, row.DiscountPct, row.OrderDate, string(row.Shipping), string(row.Payment),
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// ExchangeRate devuelve la cotización del dólar cargada en la tabla de
// cotizaciones. Su ausencia o un valor no positivo es un error duro.
func (r *PostgresRepository) ExchangeRate(ctx context.Context) (float64, error) {
	var rate float64
	err := r.pool.QueryRow(ctx,
		`SELECT valor FROM cotizacion WHERE moneda = $1`,
		usdCurrency,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoExchangeRate
		}
		return 0, fmt.Errorf("select rate: %w", err)
	}

	if rate <= 0 {
		return 0, ErrNoExchangeRate
	}
	return rate, nil
}

// ListNames devuelve los nombres registrados en orden de alta.
func (r *PostgresRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT nombre FROM clientes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return names, nil
}

// Append agrega un cliente nuevo. La restricción de unicidad por nombre es la
// segunda barrera de deduplicación, detrás del chequeo por igualdad exacta
// que hace el orquestador.
func (r *PostgresRepository) Append(ctx context.Context, rec model.CustomerRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clientes (nombre, alias, correo, documento, telefono, domicilio)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.Name, rec.Alias, rec.Email, rec.TaxID, rec.Phone, rec.Address,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrCustomerExists, rec.Name)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

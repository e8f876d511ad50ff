package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('ativo', 'inativo', 'pendente');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('admin', 'solicitante', 'engenheiro', 'suprimento', 'diretor');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL,
		password_hash TEXT NOT NULL,
		display_name VARCHAR(255) NOT NULL DEFAULT '',
		cpf VARCHAR(14) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		role user_role NOT NULL DEFAULT 'solicitante',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (LOWER(email));`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		cliente VARCHAR(255) NOT NULL,
		obra VARCHAR(255) NOT NULL,
		numero_contrato VARCHAR(64) NOT NULL,
		vigencia_inicio DATE NOT NULL,
		vigencia_fim DATE NOT NULL,
		valor NUMERIC(18,2) NOT NULL,
		status contract_status NOT NULL DEFAULT 'pendente',
		created_by VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_created_at ON contracts (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (status);`,
	`CREATE TABLE IF NOT EXISTS unit_prices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		codigo VARCHAR(64) NOT NULL,
		tipo VARCHAR(255) NOT NULL,
		espessura VARCHAR(64) NOT NULL DEFAULT '',
		estrutura VARCHAR(255) NOT NULL DEFAULT '',
		chapa_face1 VARCHAR(64) NOT NULL DEFAULT '',
		chapa_face2 VARCHAR(64) NOT NULL DEFAULT '',
		isolamento VARCHAR(255) NOT NULL DEFAULT '',
		quantidade NUMERIC(18,3) NOT NULL DEFAULT 0,
		unidade VARCHAR(8) NOT NULL DEFAULT 'm2',
		unit_material NUMERIC(18,2) NOT NULL DEFAULT 0,
		unit_mao_obra NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_material NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_mao_obra NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_unit_prices_codigo ON unit_prices (codigo);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

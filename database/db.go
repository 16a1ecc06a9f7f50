package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/giv2giv/giv2giv/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = BootstrapSchema(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// BootstrapSchema creates the grant pipeline tables when they do not exist.
// The directory tables (charities, endowments, donors) are owned by the CRUD
// side of the platform; they are created here too so a fresh database can run
// the pipeline end to end.
func BootstrapSchema(db *sql.DB) error {
	err := createDonorTable(db)
	if err != nil {
		return err
	}
	err = createEndowmentTable(db)
	if err != nil {
		return err
	}
	err = createCharityTable(db)
	if err != nil {
		return err
	}
	err = createEndowmentCharityTable(db)
	if err != nil {
		return err
	}
	err = createShareTable(db)
	if err != nil {
		return err
	}
	err = createGrantTable(db)
	if err != nil {
		return err
	}
	err = createTransitFundTable(db)
	if err != nil {
		return err
	}
	return nil
}

// createGrantTable creates a PostgreSQL table for the Grant struct
func createGrantTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS grants (
			id SERIAL PRIMARY KEY,
			grant_id TEXT NOT NULL UNIQUE,
			charity_id TEXT NOT NULL REFERENCES charities(charity_id),
			endowment_id TEXT NOT NULL REFERENCES endowments(endowment_id),
			donor_id TEXT NOT NULL REFERENCES donors(donor_id),
			shares_subtracted NUMERIC(24, 12) NOT NULL,
			grant_amount NUMERIC(20, 2) NOT NULL,
			giv2giv_fee NUMERIC(20, 2) NOT NULL,
			net_amount NUMERIC(20, 2),
			transaction_id TEXT,
			transaction_fee NUMERIC(20, 2),
			grant_type TEXT NOT NULL CHECK (grant_type IN ('endowed', 'pass_thru')),
			status TEXT NOT NULL CHECK (status IN ('pending_approval', 'denied', 'pending_acceptance', 'accepted', 'reclaimed', 'failed', 'canceled')),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	log.Println(err)
	return err
}

// createTransitFundTable creates a PostgreSQL table for the TransitFund struct
func createTransitFundTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transit_funds (
			id SERIAL PRIMARY KEY,
			transit_fund_id TEXT NOT NULL UNIQUE,
			transaction_id TEXT NOT NULL,
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			amount NUMERIC(20, 2) NOT NULL,
			cleared BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createShareTable creates a PostgreSQL table for the Share struct
func createShareTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS shares (
			id SERIAL PRIMARY KEY,
			share_id TEXT NOT NULL UNIQUE,
			grant_price NUMERIC(24, 12) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

func createCharityTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS charities (
			id SERIAL PRIMARY KEY,
			charity_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			payout_email TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

func createEndowmentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS endowments (
			id SERIAL PRIMARY KEY,
			endowment_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

func createDonorTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS donors (
			id SERIAL PRIMARY KEY,
			donor_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createEndowmentCharityTable links endowments to their recipient charities in
// insertion order.
func createEndowmentCharityTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS endowment_charities (
			id SERIAL PRIMARY KEY,
			endowment_id TEXT NOT NULL REFERENCES endowments(endowment_id),
			charity_id TEXT NOT NULL REFERENCES charities(charity_id),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (endowment_id, charity_id)
		)
	`)
	log.Println(err)
	return err
}

package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"asistencia_backend/internals/configs"
	historialModel "asistencia_backend/internals/features/asistencia/historial/model"
	marcasModel "asistencia_backend/internals/features/asistencia/marcas/model"
	registroModel "asistencia_backend/internals/features/asistencia/registro/model"
)

// DB es el almacén remoto (Postgres): marcas efímeras del día y registro
// definitivo. LocalDB es el almacén durable local (SQLite): historial
// mensual consultable sin conexión.
var (
	DB      *gorm.DB
	LocalDB *gorm.DB
)

func ConnectDB() {
	log.Println("🔌 Conectando a PostgreSQL (marcas)...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=asistencia&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // compatible con PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ No se pudo conectar a Postgres: %v", err)
	}
	DB = db
	log.Println("✅ Postgres conectado.")
}

func ConnectLocalDB() {
	ruta := getenv("LOCAL_DB_PATH", "asistencia.db")
	log.Printf("🔌 Abriendo historial local (SQLite) en %s...", ruta)

	// busy_timeout: las escrituras concurrentes esperan en vez de fallar
	// de inmediato con "database is locked".
	db, err := gorm.Open(sqlite.Open(ruta+"?_busy_timeout=5000&_journal_mode=WAL"), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ No se pudo abrir el historial local: %v", err)
	}
	LocalDB = db
	log.Println("✅ Historial local abierto.")
}

// Migrate crea las tablas de ambos almacenes si no existen.
func Migrate() {
	if err := DB.AutoMigrate(
		&marcasModel.MarcaAsistenciaModel{},
		&registroModel.RegistroMensualModel{},
	); err != nil {
		log.Fatalf("❌ Migración Postgres falló: %v", err)
	}
	if err := LocalDB.AutoMigrate(&historialModel.AgregadoMensualModel{}); err != nil {
		log.Fatalf("❌ Migración SQLite falló: %v", err)
	}
	log.Println("✅ Migraciones aplicadas.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	// SQLite: un solo escritor; el resto del pool solo lee.
	if localDB, err := LocalDB.DB(); err == nil {
		localDB.SetMaxOpenConns(1)
	}
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"asistencia_backend/internals/features/asistencia/estado"
)

var (
	JWTSecret string

	// Zona horaria civil de la institución y corte diario de las marcas.
	ZonaHoraria string
	CorteDiario string

	// Tolerancias de puntualidad (segundos) y ventana de anulación (minutos).
	Tolerancias     estado.Tolerancias
	AnulacionMaxMin int64
)

/* =======================
   ENV LOADER
======================= */

func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No se encontró .env, usando variables del sistema")
		} else {
			log.Println("✅ .env cargado")
		}
	} else {
		log.Println("🚀 Entorno Railway, usando variables del sistema")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET no está definido")
	}

	ZonaHoraria = GetEnv("ZONA_HORARIA", "America/Lima")
	CorteDiario = GetEnv("CORTE_DIARIO", "23:59:59")

	Tolerancias = estado.ToleranciasPorDefecto()
	if v := envInt64("TOLERANCIA_TARDANZA_SEG"); v >= 0 {
		Tolerancias.Tardanza = v
	}
	if v := envInt64("TOLERANCIA_SALIDA_SEG"); v >= 0 {
		Tolerancias.SalidaAnticipada = v
	}

	AnulacionMaxMin = 2
	if v := envInt64("ANULACION_MAX_MIN"); v > 0 {
		AnulacionMaxMin = v
	}

	log.Printf("✅ Config asistencia: tz=%s corte=%s tardanza=%ds salida=%ds anulación=%dmin",
		ZonaHoraria, CorteDiario, Tolerancias.Tardanza, Tolerancias.SalidaAnticipada, AnulacionMaxMin)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// envInt64 devuelve -1 si la variable no existe o no es numérica.
func envInt64(key string) int64 {
	v, exists := os.LookupEnv(key)
	if !exists {
		return -1
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("⚠️ %s=%q no es numérico, se ignora", key, v)
		return -1
	}
	return n
}

/* =======================
   GORM LOGGER CUSTOM
======================= */

type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Info,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	} else {
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"asistencia_backend/internals/features/asistencia/marcas/model"
)

// StartPurgaMarcasScheduler borra periódicamente las marcas vencidas.
// Las lecturas ya filtran por marca_expira_en, así que la purga es solo
// higiene de la tabla, no correctitud.
func StartPurgaMarcasScheduler(db *gorm.DB) {
	go func() {
		intervaloMin := 30
		if val := os.Getenv("PURGA_MARCAS_INTERVALO_MIN"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervaloMin = parsed
			}
		}

		for {
			res := db.
				Where("marca_expira_en < ?", time.Now()).
				Delete(&model.MarcaAsistenciaModel{})
			if res.Error != nil {
				log.Printf("[PURGA ERROR] No se pudieron borrar marcas vencidas: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[PURGA] %d marcas vencidas eliminadas", res.RowsAffected)
			}

			time.Sleep(time.Duration(intervaloMin) * time.Minute)
		}
	}()
}

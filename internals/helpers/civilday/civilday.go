// internals/helpers/civilday/civilday.go
//
// Único lugar del backend con aritmética de zona horaria. El resto de los
// componentes reciben fechas civiles ya localizadas (YYYY-MM-DD) y nunca
// tocan time.Now ni offsets mágicos.
package civilday

import (
	"fmt"
	"time"
)

const (
	FormatoFecha = "2006-01-02"
	FormatoMes   = "2006-01"
)

// Proveedor traduce instantes absolutos al calendario civil de la
// institución y calcula el TTL hasta el corte diario configurado.
type Proveedor struct {
	loc       *time.Location
	corteHora int
	corteMin  int
	corteSeg  int
}

// NuevoProveedor arma el proveedor a partir del nombre IANA de la zona
// (ej. "America/Lima") y la hora de corte "HH:MM:SS".
func NuevoProveedor(zona, corte string) (*Proveedor, error) {
	loc, err := time.LoadLocation(zona)
	if err != nil {
		return nil, fmt.Errorf("zona horaria inválida %q: %w", zona, err)
	}
	var h, m, s int
	if _, err := fmt.Sscanf(corte, "%d:%d:%d", &h, &m, &s); err != nil {
		return nil, fmt.Errorf("hora de corte inválida %q: %w", corte, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return nil, fmt.Errorf("hora de corte fuera de rango: %q", corte)
	}
	return &Proveedor{loc: loc, corteHora: h, corteMin: m, corteSeg: s}, nil
}

func (p *Proveedor) Ubicacion() *time.Location { return p.loc }

// FechaCivil devuelve la fecha calendario local (YYYY-MM-DD) del instante.
func (p *Proveedor) FechaCivil(t time.Time) string {
	return t.In(p.loc).Format(FormatoFecha)
}

// MesCivil devuelve el mes calendario local (YYYY-MM) del instante.
func (p *Proveedor) MesCivil(t time.Time) string {
	return t.In(p.loc).Format(FormatoMes)
}

// DiaDelMes devuelve el día del mes (1..31) del instante en hora local.
func (p *Proveedor) DiaDelMes(t time.Time) int {
	return t.In(p.loc).Day()
}

// DesdeMillis convierte epoch millis a time.Time en la zona local.
func (p *Proveedor) DesdeMillis(ms int64) time.Time {
	return time.UnixMilli(ms).In(p.loc)
}

// SegundosHastaCorte calcula el TTL de una marca: segundos que faltan
// hasta el corte de hoy, o hasta el corte de mañana si el de hoy ya pasó.
// Siempre en [1, 86400].
func (p *Proveedor) SegundosHastaCorte(t time.Time) int64 {
	local := t.In(p.loc)
	corte := time.Date(local.Year(), local.Month(), local.Day(),
		p.corteHora, p.corteMin, p.corteSeg, 0, p.loc)
	if !corte.After(local) {
		corte = corte.AddDate(0, 0, 1)
	}
	ttl := int64(corte.Sub(local).Seconds())
	if ttl < 1 {
		ttl = 1
	}
	if ttl > 86400 {
		ttl = 86400
	}
	return ttl
}

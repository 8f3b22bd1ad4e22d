package model

import (
	"fmt"
	"regexp"
	"strings"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
)

// Formato de clave remota: fecha:modo:actor:identidad[:nivel:grado:seccion]
// Los discriminadores entre corchetes existen solo para actor estudiante;
// para personal la clave se reduce a los cuatro segmentos obligatorios.

var reFecha = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type ClaveMarca struct {
	Fecha     string
	Modo      estado.Modo
	Actor     string
	Identidad string
	Nivel     string
	Grado     string
	Seccion   string
}

// EsEstudiante indica si la clave lleva discriminadores de aula.
func (k ClaveMarca) EsEstudiante() bool {
	return k.Actor == constants.RolEstudiante
}

func (k ClaveMarca) Validar() error {
	if !reFecha.MatchString(k.Fecha) {
		return fmt.Errorf("fecha civil inválida: %q", k.Fecha)
	}
	if !k.Modo.Valido() {
		return fmt.Errorf("modo inválido: %q", k.Modo)
	}
	if k.Actor == "" {
		return fmt.Errorf("actor vacío")
	}
	if k.Identidad == "" {
		return fmt.Errorf("identidad vacía")
	}
	for _, seg := range []string{string(k.Modo), k.Actor, k.Identidad, k.Nivel, k.Grado, k.Seccion} {
		if strings.Contains(seg, ":") {
			return fmt.Errorf("segmento de clave con ':' prohibido: %q", seg)
		}
	}
	conDiscriminadores := k.Nivel != "" || k.Grado != "" || k.Seccion != ""
	if !k.EsEstudiante() && conDiscriminadores {
		return fmt.Errorf("discriminadores nivel/grado/sección solo aplican a estudiantes")
	}
	if conDiscriminadores && (k.Nivel == "" || k.Grado == "" || k.Seccion == "") {
		return fmt.Errorf("discriminadores incompletos: nivel, grado y sección van juntos")
	}
	return nil
}

// String arma la clave canónica con separador de dos puntos.
func (k ClaveMarca) String() string {
	base := strings.Join([]string{k.Fecha, string(k.Modo), k.Actor, k.Identidad}, ":")
	if k.EsEstudiante() && k.Nivel != "" {
		return strings.Join([]string{base, k.Nivel, k.Grado, k.Seccion}, ":")
	}
	return base
}

// ParseClave descompone una clave canónica. Acepta 4 segmentos (personal,
// o estudiante sin discriminadores conocidos) o 7 (estudiante completo).
func ParseClave(s string) (ClaveMarca, error) {
	partes := strings.Split(s, ":")
	var k ClaveMarca
	switch len(partes) {
	case 4:
		k = ClaveMarca{Fecha: partes[0], Modo: estado.Modo(partes[1]), Actor: partes[2], Identidad: partes[3]}
	case 7:
		k = ClaveMarca{
			Fecha: partes[0], Modo: estado.Modo(partes[1]), Actor: partes[2], Identidad: partes[3],
			Nivel: partes[4], Grado: partes[5], Seccion: partes[6],
		}
		if k.Actor != constants.RolEstudiante {
			return ClaveMarca{}, fmt.Errorf("clave con discriminadores para actor no estudiante: %q", s)
		}
	default:
		return ClaveMarca{}, fmt.Errorf("clave con %d segmentos (se esperan 4 o 7): %q", len(partes), s)
	}
	if err := k.Validar(); err != nil {
		return ClaveMarca{}, err
	}
	return k, nil
}

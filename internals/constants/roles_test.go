package constants

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolAPersonKind(t *testing.T) {
	cases := []struct {
		rol  string
		want PersonKind
	}{
		{RolProfesorPrimaria, KindProfesorPrimaria},
		{RolProfesorSecundaria, KindProfesorSecundaria},
		{RolTutor, KindProfesorSecundaria},
		{RolAuxiliar, KindAuxiliar},
		{RolAdministrativo, KindAdministrativo},
	}
	for _, c := range cases {
		kind, err := RolAPersonKind(c.rol)
		assert.NoError(t, err, c.rol)
		assert.Equal(t, c.want, kind)
	}
}

func TestRolAPersonKindRechazados(t *testing.T) {
	for _, rol := range []string{RolDirector, RolApoderado, RolEstudiante, "", "vigilante"} {
		kind, err := RolAPersonKind(rol)
		assert.Empty(t, kind, rol)
		assert.True(t, errors.Is(err, ErrRolNoSoportado), rol)
	}
}

func TestEsPersonal(t *testing.T) {
	assert.True(t, EsPersonal(RolTutor))
	assert.False(t, EsPersonal(RolEstudiante))
	assert.False(t, EsPersonal(RolDirector))
}

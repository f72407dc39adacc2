package bootstrap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ReadUsersCSV lee usuarios adicionales con cabecera
// email,fullName,department,permissions[,password]; los permisos van separados por "|".
// Con latin1 la entrada se decodifica desde ISO-8859-1 (exportaciones de hojas de cálculo).
func ReadUsersCSV(r io.Reader, latin1 bool) ([]UserSeed, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV de usuarios: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	var out []UserSeed
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas", line)
		}
		us := UserSeed{
			Email:          strings.TrimSpace(rec[0]),
			FullName:       strings.TrimSpace(rec[1]),
			DepartmentCode: strings.ToUpper(strings.TrimSpace(rec[2])),
		}
		if us.Email == "" {
			return nil, fmt.Errorf("línea %d: email vacío", line)
		}
		for _, p := range strings.Split(rec[3], "|") {
			if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
				us.Permissions = append(us.Permissions, p)
			}
		}
		if len(rec) > 4 {
			us.Password = rec[4]
		}
		out = append(out, us)
	}
	return out, nil
}

package ptrx

// String retorna un puntero al valor
func String(s string) *string { return &s }

// Int retorna un puntero al valor
func Int(i int) *int { return &i }

// Bool retorna un puntero al valor
func Bool(b bool) *bool { return &b }

// StringValue retorna el valor o "" si es nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IntValue retorna el valor o 0 si es nil
func IntValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

// StringOrNil retorna nil para cadenas vacías
func StringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

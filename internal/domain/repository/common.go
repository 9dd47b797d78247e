package repository

// Page ventana de resultados para listados.
type Page struct {
	Limit  int
	Offset int
}

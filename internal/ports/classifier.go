package ports

import "context"

// ClassKind es el resultado etiquetado de clasificar un token desconocido.
type ClassKind int

const (
	// Ignore deja el token sin resolver.
	Ignore ClassKind = iota
	// ExistingEntity ató el token como alias de una entidad ya existente.
	ExistingEntity
	// NewEntity creó una entidad nueva a partir del token.
	NewEntity
)

// Classification es la decisión del clasificador sobre un token.
// Name es el nombre canónico resuelto; vacío cuando Kind es Ignore.
type Classification struct {
	Kind ClassKind
	Name string
}

// Classifier decide qué hacer con un token que el reconocimiento no pudo
// resolver contra el directorio. La implementación es libre (prompt
// interactivo, auto-aceptación difusa, script de test); el core solo exige
// que sea síncrona y que cualquier mutación pase por el Directory recibido.
type Classifier interface {
	Classify(ctx context.Context, token string, dir Directory) (Classification, error)
}

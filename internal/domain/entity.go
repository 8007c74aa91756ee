package domain

// Team es una entidad canónica del directorio. Name es la identidad:
// dos equipos con el mismo nombre canónico son el mismo equipo.
type Team struct {
	Name    string
	Sport   string
	Aliases []string
}

// Market es un mercado canónico del directorio (ej. "match odds").
// TypeCodes son los códigos estandarizados del exchange para este mercado.
type Market struct {
	Name        string
	Sport       string
	Aliases     []string
	TypeCodes   []string
	Description string
}

// Snapshot es una vista inmutable del directorio de entidades, etiquetada
// con la versión del directorio con la que fue construida. El parser trabaja
// siempre sobre un snapshot: si el directorio muta, se pide uno nuevo y se
// re-parsea desde cero.
type Snapshot struct {
	Version int64
	Teams   []Team
	Markets []Market
}

// TeamByName busca un equipo por su nombre canónico.
func (s Snapshot) TeamByName(name string) (Team, bool) {
	for _, t := range s.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return Team{}, false
}

// MarketByName busca un mercado por su nombre canónico.
func (s Snapshot) MarketByName(name string) (Market, bool) {
	for _, m := range s.Markets {
		if m.Name == name {
			return m, true
		}
	}
	return Market{}, false
}

// TeamSport devuelve el deporte del equipo, o fallback si no está en el snapshot.
func (s Snapshot) TeamSport(name, fallback string) string {
	if t, ok := s.TeamByName(name); ok && t.Sport != "" {
		return t.Sport
	}
	return fallback
}

package catalog

import "time"

// ClassicalPeriods are the music genres that enable the classical subtype select.
var ClassicalPeriods = []string{
	"Medieval o Antigua",
	"Renacentista",
	"Clasicista o Neoclásica",
	"Romántica",
	"Nacionalista",
	"Contemporánea Politonista",
	"Contemporánea Dodecafónica",
	"Contemporánea Atonalista",
}

// ClassicalForms are offered for every classical period.
var ClassicalForms = []string{
	"Óperas",
	"Música de cámara",
	"Sinfonías",
	"Oratorios",
	"Misas",
	"Sonatas",
	"Poemas Sinfónicos",
	"Compositores",
}

// IsClassical reports whether genre is one of the classical periods.
func IsClassical(genre string) bool {
	return contains(ClassicalPeriods, genre)
}

const (
	ArtPainting  = "Painting"
	ArtSculpture = "Sculpture"
)

func bookSubcategories(tax Taxonomy) map[string][]string {
	if tax == nil {
		return nil
	}
	out := make(map[string][]string)
	for _, category := range tax.Options("categorias") {
		out[category] = tax.Subcategories(category)
	}
	return out
}

func classicalForms(Taxonomy) map[string][]string {
	out := make(map[string][]string, len(ClassicalPeriods))
	for _, period := range ClassicalPeriods {
		out[period] = ClassicalForms
	}
	return out
}

var Books = &Schema{
	Key:         "libros",
	Segment:     "libros",
	Route:       "/libros",
	Title:       "Books",
	Singular:    "book",
	Icon:        "📚",
	Description: "Browse the book collection across every category",
	TitleField:  "titulo",
	Fields: []Field{
		{Name: "titulo", Label: "Title", Kind: Text, Required: true},
		{Name: "autor", Label: "Author", Kind: Text, Required: true},
		{Name: "categoria", Label: "Category", Kind: Select, Required: true, OptionsFrom: "categorias"},
		{Name: "subcategoria", Label: "Subcategory", Kind: Select, DependsOn: "categoria", OptionMap: bookSubcategories},
		{Name: "enciclopedia", Label: "Encyclopedia", Kind: Select, OptionsFrom: "enciclopedias"},
		{Name: "colecciones", Label: "Collections", Kind: Text},
		{Name: "editorial", Label: "Publisher", Kind: Text, Required: true},
		{Name: "idioma", Label: "Language", Kind: Select, Required: true, OptionsFrom: "idiomas"},
		{Name: "numPag", Label: "Pages", Kind: Integer, Required: true},
		{Name: "yearPub", Label: "Publication year", Kind: Integer, Required: true},
		{Name: "isbn", Label: "ISBN", Kind: Text, Required: true},
		{Name: "depositoLegal", Label: "Legal deposit", Kind: Text, Required: true},
		{Name: "fotoPortada", Label: "Front cover", Kind: Image},
		{Name: "fotoContraportada", Label: "Back cover", Kind: Image},
	},
	SearchFields:  []string{"titulo", "autor", "editorial", "isbn"},
	SummaryFields: []string{"autor", "editorial", "yearPub"},
	ImageFields:   []string{"fotoPortada", "fotoContraportada"},
	Rules: func(form Form, now time.Time) []string {
		return collect(
			positiveInt(form, "numPag", "The number of pages"),
			intBetween(form, "yearPub", "The publication year", 1000, now.Year()),
		)
	},
}

var Music = &Schema{
	Key:         "musica",
	Segment:     "musica",
	Route:       "/musica",
	Title:       "Music",
	Singular:    "disc",
	Icon:        "🎵",
	Description: "Browse discs of every style and period",
	TitleField:  "titulo",
	Fields: []Field{
		{Name: "titulo", Label: "Title", Kind: Text, Required: true},
		{Name: "artista", Label: "Artist", Kind: Text, Required: true},
		{Name: "tipoArtista", Label: "Artist type", Kind: Select, Required: true, OptionsFrom: "tiposArtista"},
		{Name: "tipoMusica", Label: "Genre", Kind: Select, Required: true, Options: ClassicalPeriods, OptionsFrom: "generosMusica"},
		{Name: "tipoMusicaClasica", Label: "Classical type", Kind: Select, DependsOn: "tipoMusica", OptionMap: classicalForms},
		{Name: "idioma", Label: "Language", Kind: Select, Required: true, OptionsFrom: "idiomas"},
		{Name: "discografica", Label: "Record label", Kind: Text, Required: true},
		{Name: "anoGrab", Label: "Recording year", Kind: Integer},
		{Name: "formato", Label: "Format", Kind: Select, Required: true, OptionsFrom: "formatosMusica"},
		{Name: "colecciones", Label: "Collections", Kind: Text},
		{Name: "album", Label: "Album", Kind: Text},
		{Name: "numPista", Label: "Tracks", Kind: Integer},
		{Name: "conciertos", Label: "Concerts", Kind: Text},
		{Name: "fotoPortada", Label: "Front cover", Kind: Image},
		{Name: "fotoContraportada", Label: "Back cover", Kind: Image},
		{Name: "memo", Label: "Notes", Kind: TextArea},
		{Name: "resenaBio", Label: "Biography", Kind: TextArea},
	},
	SearchFields:  []string{"titulo", "artista", "album", "tipoMusica"},
	SummaryFields: []string{"artista", "album", "tipoMusica", "anoGrab"},
	ImageFields:   []string{"fotoPortada", "fotoContraportada"},
	Rules: func(form Form, now time.Time) []string {
		return collect(
			intBetween(form, "anoGrab", "The recording year", 1850, now.Year()),
			positiveInt(form, "numPista", "The number of tracks"),
		)
	},
}

var CDROMs = &Schema{
	Key:         "cdrom",
	Segment:     "cdrom",
	Route:       "/cds",
	Title:       "CD-ROMs",
	Singular:    "CD-ROM",
	Icon:        "💿",
	Description: "Browse software and multimedia discs",
	TitleField:  "titulo",
	Fields: []Field{
		{Name: "titulo", Label: "Title", Kind: Text, Required: true},
		{Name: "tematica", Label: "Subject", Kind: Select, Required: true, OptionsFrom: "tematicasCdrom"},
		{Name: "duracion", Label: "Duration", Kind: Integer, Unit: "min"},
		{Name: "yearGrabacion", Label: "Recording year", Kind: Integer},
		{Name: "coleccion", Label: "Collection", Kind: Text},
	},
	SearchFields:  []string{"titulo", "coleccion"},
	SummaryFields: []string{"tematica", "coleccion", "yearGrabacion"},
	Rules: func(form Form, now time.Time) []string {
		return collect(
			positiveInt(form, "duracion", "The duration"),
			intBetween(form, "yearGrabacion", "The recording year", 1980, now.Year()),
		)
	},
}

var Videos = &Schema{
	Key:         "videos",
	Segment:     "videos",
	Route:       "/videoteca",
	Title:       "Videos",
	Singular:    "video",
	Icon:        "🎬",
	Description: "Browse films and recordings",
	TitleField:  "tituloEsp",
	Fields: []Field{
		{Name: "tituloEsp", Label: "Spanish title", Kind: Text, Required: true},
		{Name: "tituloOrg", Label: "Original title", Kind: Text},
		{Name: "tematica", Label: "Subject", Kind: Select, Required: true, OptionsFrom: "tematicasVideo"},
		{Name: "director", Label: "Director", Kind: Text, Required: true},
		{Name: "protagonistas", Label: "Cast", Kind: Text, Required: true},
		{Name: "companiaCinematografica", Label: "Studio", Kind: Text, Required: true},
		{Name: "duracion", Label: "Duration", Kind: Integer, Required: true, Unit: "min"},
		{Name: "idiomasAudios", Label: "Audio languages", Kind: Text, Required: true},
		{Name: "idiomasSubtitulos", Label: "Subtitle languages", Kind: Text, Required: true},
		{Name: "formato", Label: "Format", Kind: Select, Required: true, OptionsFrom: "formatosVideo"},
		{Name: "pais", Label: "Country", Kind: Select, Required: true, OptionsFrom: "paises"},
		{Name: "nacionalidad", Label: "Nationality", Kind: Text, Required: true},
		{Name: "portada", Label: "Cover", Kind: Image},
		{Name: "argumento", Label: "Plot", Kind: TextArea, Required: true},
	},
	SearchFields:  []string{"tituloEsp", "tituloOrg", "director"},
	SummaryFields: []string{"director", "tematica", "duracion"},
	ImageFields:   []string{"portada"},
	Rules: func(form Form, now time.Time) []string {
		return collect(positiveInt(form, "duracion", "The duration"))
	},
}

var Magazines = &Schema{
	Key:         "revista",
	Segment:     "revista",
	Route:       "/revistas",
	Title:       "Magazines",
	Singular:    "magazine",
	Icon:        "📰",
	Description: "Browse magazine issues",
	TitleField:  "titulo",
	Fields: []Field{
		{Name: "titulo", Label: "Title", Kind: Text, Required: true},
		{Name: "tematica", Label: "Subject", Kind: Select, Required: true, OptionsFrom: "tematicasRevista"},
		{Name: "editorial", Label: "Publisher", Kind: Text, Required: true},
		{Name: "fechaEdicion", Label: "Edition year", Kind: Integer},
		{Name: "numPag", Label: "Pages", Kind: Integer},
		{Name: "numRevista", Label: "Issue number", Kind: Integer},
		{Name: "fotoPortada", Label: "Cover", Kind: Image},
	},
	SearchFields:  []string{"titulo", "tematica", "editorial"},
	SummaryFields: []string{"tematica", "editorial", "numRevista"},
	ImageFields:   []string{"fotoPortada"},
	Rules: func(form Form, now time.Time) []string {
		return collect(
			intBetween(form, "fechaEdicion", "The edition year", 1500, now.Year()+1),
			positiveInt(form, "numPag", "The number of pages"),
			positiveInt(form, "numRevista", "The issue number"),
		)
	},
}

var Artworks = &Schema{
	Key:         "arte",
	Segment:     "arte",
	Route:       "/arte",
	Title:       "Art",
	Singular:    "artwork",
	Icon:        "🎨",
	Description: "Browse paintings and sculptures",
	TitleField:  "titulo",
	Fields: []Field{
		{Name: "titulo", Label: "Title", Kind: Text, Required: true},
		{Name: "autor", Label: "Author", Kind: Text, Required: true},
		{Name: "tematica", Label: "Subject", Kind: Select, Required: true, OptionsFrom: "tematicasArte"},
		{Name: "tipo", Label: "Type", Kind: Select, Required: true, Virtual: true, Options: []string{ArtPainting, ArtSculpture}},
		{Name: "tecnicaPictorica", Label: "Pictorial technique", Kind: Select, OptionsFrom: "tecnicasPictoricas", When: &Condition{Field: "tipo", Value: ArtPainting}},
		{Name: "tecnicaEscultorica", Label: "Sculptural technique", Kind: Select, OptionsFrom: "tecnicasEscultoricas", When: &Condition{Field: "tipo", Value: ArtSculpture}},
		{Name: "certificado", Label: "Certificate of authenticity", Kind: Checkbox},
		{Name: "altura", Label: "Height", Kind: Decimal, Unit: "cm"},
		{Name: "anchura", Label: "Width", Kind: Decimal, Unit: "cm"},
		{Name: "peso", Label: "Weight", Kind: Decimal, Unit: "kg"},
		{Name: "foto", Label: "Photo", Kind: Image},
	},
	SearchFields:  []string{"titulo", "autor", "tematica"},
	SummaryFields: []string{"autor", "tematica"},
	ImageFields:   []string{"foto"},
	Normalize: func(form Form) {
		if form["tecnicaEscultorica"] != "" {
			form["tipo"] = ArtSculpture
		} else {
			form["tipo"] = ArtPainting
		}
	},
	Rules: func(form Form, now time.Time) []string {
		var technique string
		switch form["tipo"] {
		case ArtPainting:
			if form["tecnicaPictorica"] == "" {
				technique = "You must select a pictorial technique for paintings"
			}
		case ArtSculpture:
			if form["tecnicaEscultorica"] == "" {
				technique = "You must select a sculptural technique for sculptures"
			}
		default:
			technique = "The type must be painting or sculpture"
		}
		return collect(
			technique,
			positiveDecimal(form, "altura", "The height", "cm"),
			positiveDecimal(form, "anchura", "The width", "cm"),
			positiveDecimal(form, "peso", "The weight", "kg"),
		)
	},
	Finalize: func(form Form, rec Record) {
		if form["tipo"] == ArtSculpture {
			rec["tecnicaPictorica"] = ""
		} else {
			rec["tecnicaEscultorica"] = ""
		}
	},
}

// DefaultRegistry lists the entities in navigation order.
func DefaultRegistry() *Registry {
	return NewRegistry(Books, Music, CDROMs, Videos, Magazines, Artworks)
}

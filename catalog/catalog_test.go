package catalog

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taxonomy struct {
	lists      map[string][]string
	categories map[string][]string
}

func (t taxonomy) Options(name string) []string {
	if name == "categorias" {
		var out []string
		for k := range t.categories {
			out = append(out, k)
		}
		return out
	}
	return t.lists[name]
}

func (t taxonomy) Subcategories(category string) []string {
	return t.categories[category]
}

var testTax = taxonomy{
	lists: map[string][]string{"idiomas": {"Español", "Inglés"}, "generosMusica": {"Rock", "Jazz"}},
	categories: map[string][]string{
		"Ficción": {"Novela", "Cuento"},
		"Ciencia": {"Física"},
	},
}

var now = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func bookValues() url.Values {
	return url.Values{
		"titulo":        {"Rayuela"},
		"autor":         {"Cortázar"},
		"categoria":     {"Ficción"},
		"subcategoria":  {"Novela"},
		"editorial":     {"Sudamericana"},
		"idioma":        {"Español"},
		"numPag":        {"6a00"},
		"yearPub":       {"1963"},
		"isbn":          {"978-84"},
		"depositoLegal": {"M-1-1963"},
	}
}

func TestBookSubmitBuildsPayload(t *testing.T) {
	form, rec, err := Books.Submit(bookValues(), nil, testTax, now, "")
	require.NoError(t, err)
	assert.Equal(t, "600", form["numPag"])
	assert.Equal(t, 600, rec["numPag"])
	assert.Equal(t, 1963, rec["yearPub"])
	assert.Equal(t, "", rec["id"])
	assert.Equal(t, "Novela", rec["subcategoria"])
	assert.Equal(t, "", rec["fotoPortada"])
}

func TestMissingRequiredBlocksWithSingleMessage(t *testing.T) {
	values := bookValues()
	values.Del("isbn")
	values.Set("autor", "  ")
	_, rec, err := Books.Submit(values, nil, testTax, now, "")
	require.Error(t, err)
	assert.Nil(t, rec)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, ValidationErrors{RequiredMessage}, verrs)
}

func TestBookRangeErrorsAreJoined(t *testing.T) {
	values := bookValues()
	values.Set("numPag", "0")
	values.Set("yearPub", "2999")
	_, _, err := Books.Submit(values, nil, testTax, now, "")
	require.Error(t, err)
	assert.Equal(t,
		"The number of pages must be a positive whole number. The publication year must be a whole number between 1000 and 2024",
		err.Error())
}

func TestBookSubcategoryClearedWhenCategoryChanges(t *testing.T) {
	values := bookValues()
	values.Set("categoria", "Ciencia")
	form, rec, err := Books.Submit(values, nil, testTax, now, "")
	require.NoError(t, err)
	assert.Equal(t, "", form["subcategoria"])
	assert.Equal(t, "", rec["subcategoria"])
}

func TestBookStoredSubcategoryKeptWhileUnchanged(t *testing.T) {
	values := bookValues()
	values.Set("subcategoria", "Ensayo")
	values.Set("subcategoria"+StoredSuffix, "Ensayo")
	values.Set("categoria"+StoredSuffix, "Ficción")
	_, rec, err := Books.Submit(values, nil, testTax, now, "7")
	require.NoError(t, err)
	assert.Equal(t, "Ensayo", rec["subcategoria"])

	values.Set("categoria", "Ciencia")
	_, rec, err = Books.Submit(values, nil, testTax, now, "7")
	require.NoError(t, err)
	assert.Equal(t, "", rec["subcategoria"])
}

func artValues(kind string) url.Values {
	return url.Values{
		"titulo":   {"Pensador"},
		"autor":    {"Rodin"},
		"tematica": {"Figura"},
		"tipo":     {kind},
	}
}

func TestArtworkSculptureRequiresSculpturalTechnique(t *testing.T) {
	values := artValues(ArtSculpture)
	values.Set("tecnicaPictorica", "Óleo")
	_, _, err := Artworks.Submit(values, nil, testTax, now, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sculptural technique")
	assert.NotContains(t, err.Error(), "pictorial technique")
}

func TestArtworkPaintingSendsOnlyPictorialTechnique(t *testing.T) {
	values := artValues(ArtPainting)
	values.Set("tecnicaPictorica", "Óleo")
	values.Set("tecnicaEscultorica", "Bronce")
	values.Set("altura", "12,5cm")
	values.Set("certificado", "on")
	_, rec, err := Artworks.Submit(values, nil, testTax, now, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Óleo", rec["tecnicaPictorica"])
	assert.Equal(t, "", rec["tecnicaEscultorica"])
	assert.Equal(t, 12.5, rec["altura"])
	assert.Nil(t, rec["peso"])
	assert.Equal(t, true, rec["certificado"])
	assert.Equal(t, "a1", rec["id"])
	assert.NotContains(t, rec, "tipo")
}

func TestArtworkNormalizeDerivesType(t *testing.T) {
	form := Artworks.FormFromRecord(Record{"titulo": "x", "tecnicaEscultorica": "Mármol", "altura": float64(120)})
	assert.Equal(t, ArtSculpture, form["tipo"])
	assert.Equal(t, "120", form["altura"])

	form = Artworks.FormFromRecord(Record{"titulo": "x"})
	assert.Equal(t, ArtPainting, form["tipo"])
}

func TestMusicClassicalSubtypeOnlyForClassicalPeriods(t *testing.T) {
	values := url.Values{
		"titulo": {"Nocturnos"}, "artista": {"Chopin"}, "tipoArtista": {"Solista"},
		"tipoMusica": {"Romántica"}, "tipoMusicaClasica": {"Sonatas"}, "idioma": {"Instrumental"},
		"discografica": {"DG"}, "formato": {"CD"}, "anoGrab": {"1990"},
	}
	_, rec, err := Music.Submit(values, nil, testTax, now, "")
	require.NoError(t, err)
	assert.Equal(t, "Sonatas", rec["tipoMusicaClasica"])
	assert.Nil(t, rec["numPista"])

	values.Set("tipoMusica", "Rock")
	_, rec, err = Music.Submit(values, nil, testTax, now, "")
	require.NoError(t, err)
	assert.Equal(t, "", rec["tipoMusicaClasica"])

	values.Set("anoGrab", "1700")
	_, _, err = Music.Submit(values, nil, testTax, now, "")
	assert.EqualError(t, err, "The recording year must be a whole number between 1850 and 2024")
}

func TestMagazineOptionalNumbers(t *testing.T) {
	values := url.Values{"titulo": {"Hola"}, "tematica": {"Corazón"}, "editorial": {"Hola SL"}, "fechaEdicion": {"2025"}}
	_, rec, err := Magazines.Submit(values, nil, testTax, now, "")
	require.NoError(t, err)
	assert.Equal(t, 2025, rec["fechaEdicion"])
	assert.Nil(t, rec["numPag"])

	values.Set("fechaEdicion", "2026")
	_, _, err = Magazines.Submit(values, nil, testTax, now, "")
	assert.Error(t, err)
}

func TestCDROMAndVideoRules(t *testing.T) {
	_, _, err := CDROMs.Submit(url.Values{"titulo": {"Encarta"}, "tematica": {"Enciclopedia"}, "yearGrabacion": {"1975"}}, nil, testTax, now, "")
	assert.EqualError(t, err, "The recording year must be a whole number between 1980 and 2024")

	_, _, err = Videos.Submit(url.Values{"tituloEsp": {"x"}}, nil, testTax, now, "")
	assert.EqualError(t, err, RequiredMessage)
}

func TestChoices(t *testing.T) {
	f, ok := Music.Field("tipoMusica")
	require.True(t, ok)
	choices := f.Choices(Form{}, testTax)
	assert.Equal(t, ClassicalPeriods, choices[:len(ClassicalPeriods)])
	assert.Contains(t, choices, "Jazz")

	sub, _ := Books.Field("subcategoria")
	assert.Equal(t, []string{"Física"}, sub.Choices(Form{"categoria": "Ciencia"}, testTax))
	assert.Empty(t, sub.Choices(Form{"categoria": "Ciencia"}, nil))
}

func TestDigitsAndDecimals(t *testing.T) {
	assert.Equal(t, "1963", DigitsOnly("1a9-6 3"))
	assert.Equal(t, "", DigitsOnly("abc"))
	assert.Equal(t, "12.53", DecimalOnly("12,5,3"))
	assert.Equal(t, "3.14", DecimalOnly(" 3.14 kg"))
}

// 1x1 transparent PNG
var pngBytes, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func TestEncodeImage(t *testing.T) {
	data, err := EncodeImage(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(data, "data:image/png;base64,"))

	_, err = EncodeImage(strings.NewReader("plain text, not an image"))
	assert.ErrorIs(t, err, ErrNotImage)

	big := append(append([]byte(nil), pngBytes...), make([]byte, MaxImageSize)...)
	_, err = EncodeImage(bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestKeepImage(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AA", KeepImage("data:image/png;base64,AA"))
	assert.Equal(t, "https://x/y.jpg", KeepImage("https://x/y.jpg"))
	assert.Equal(t, "", KeepImage("javascript:alert(1)"))
}

func multipartForm(t *testing.T, fields map[string]string, fileField string, content []byte) *multipart.Form {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm
}

func TestPrepareImageUploadKeepAndRemove(t *testing.T) {
	base := map[string]string{"titulo": "Hola", "tematica": "x", "editorial": "y"}

	mf := multipartForm(t, base, "fotoPortada", pngBytes)
	form, errs := Magazines.Prepare(url.Values(mf.Value), mf.File, testTax)
	assert.Empty(t, errs)
	assert.True(t, strings.HasPrefix(form["fotoPortada"], "data:image/png"))

	mf = multipartForm(t, base, "fotoPortada", []byte("not an image at all"))
	_, errs = Magazines.Prepare(url.Values(mf.Value), mf.File, testTax)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], ErrNotImage.Error())

	kept := map[string]string{"titulo": "Hola", "fotoPortada": "data:image/png;base64,AA"}
	mf = multipartForm(t, kept, "", nil)
	form, _ = Magazines.Prepare(url.Values(mf.Value), mf.File, testTax)
	assert.Equal(t, "data:image/png;base64,AA", form["fotoPortada"])

	kept["fotoPortada_remove"] = "1"
	mf = multipartForm(t, kept, "", nil)
	form, _ = Magazines.Prepare(url.Values(mf.Value), mf.File, testTax)
	assert.Equal(t, "", form["fotoPortada"])
}

func TestSubmitReportsImageAndValidationErrorsTogether(t *testing.T) {
	mf := multipartForm(t, map[string]string{"titulo": "Hola", "tematica": "x"}, "fotoPortada", []byte("not an image at all"))
	_, rec, err := Magazines.Submit(url.Values(mf.Value), mf.File, testTax, now, "")
	require.Error(t, err)
	assert.Nil(t, rec)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Contains(t, verrs[0], ErrNotImage.Error())
	assert.Equal(t, RequiredMessage, verrs[1])
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Len(t, reg.All(), 6)
	s, ok := reg.ByRoute("/cds")
	require.True(t, ok)
	assert.Equal(t, "cdrom", s.Segment)
	s, ok = reg.ByKey("videos")
	require.True(t, ok)
	assert.Equal(t, "/videoteca", s.Route)
	_, ok = reg.ByRoute("nope")
	assert.False(t, ok)
}

func TestRecordHelpers(t *testing.T) {
	rec := Record{"id": float64(7), "tituloEsp": "Amélie", "portada": ""}
	assert.Equal(t, "7", RecordID(rec))
	assert.Equal(t, "Amélie", Videos.RecordTitle(rec))
	assert.Equal(t, "", Videos.Thumbnail(rec))
	assert.Equal(t, "Untitled", Books.RecordTitle(Record{}))
}

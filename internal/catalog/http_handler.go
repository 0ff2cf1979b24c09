package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookcatalog/internal/httpx"
)

var (
	authorFormFields = []string{"name", "birthdate", "date_of_death"}
	bookFormFields   = []string{"title", "isbn", "publication_year", "author_id"}
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the catalog routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /add_author", h.AuthorForm)
	mux.HandleFunc("POST /add_author", h.AddAuthor)
	mux.HandleFunc("GET /add_book", h.BookForm)
	mux.HandleFunc("POST /add_book", h.AddBook)
	mux.HandleFunc("POST /book/{id}/delete", h.DeleteBook)
}

// Index handles GET /
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sortBy := ParseSortBy(query.Get("sort_by"))
	search := query.Get("search")

	books, err := h.service.ListBooks(r.Context(), sortBy, search)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"books":   books,
		"sort_by": sortBy,
		"search":  search,
		"message": query.Get("message"),
	}, map[string]any{"total": len(books)})
}

// AuthorForm handles GET /add_author
func (h *HTTPHandler) AuthorForm(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]any{"fields": authorFormFields}, nil)
}

// AddAuthor handles POST /add_author
func (h *HTTPHandler) AddAuthor(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	author, err := h.service.AddAuthor(r.Context(), AddAuthorInput{
		Name:        r.PostForm.Get("name"),
		BirthDate:   r.PostForm.Get("birthdate"),
		DateOfDeath: r.PostForm.Get("date_of_death"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONCreated(w, r, map[string]any{
		"author":  author,
		"message": "Author has been added!",
	}, nil)
}

// BookForm handles GET /add_book
func (h *HTTPHandler) BookForm(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.ListAuthors(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{
		"fields":  bookFormFields,
		"authors": authors,
	}, nil)
}

// AddBook handles POST /add_book
func (h *HTTPHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	// An unparsable author id is treated like a missing author.
	authorID, _ := strconv.ParseInt(strings.TrimSpace(r.PostForm.Get("author_id")), 10, 64)

	book, err := h.service.AddBook(r.Context(), AddBookInput{
		Title:           r.PostForm.Get("title"),
		ISBN:            r.PostForm.Get("isbn"),
		PublicationYear: r.PostForm.Get("publication_year"),
		AuthorID:        authorID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONCreated(w, r, map[string]any{
		"book":    book,
		"message": "Book has been added!",
	}, nil)
}

// DeleteBook handles POST /book/{id}/delete and redirects to the index with a status message.
func (h *HTTPHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	var message string

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		message = fmt.Sprintf("Error deleting book: %v", ErrNotFound)
	} else if res, err := h.service.DeleteBook(r.Context(), id); err != nil {
		message = fmt.Sprintf("Error deleting book: %v", err)
	} else {
		message = fmt.Sprintf(`"%s" has been deleted!`, res.DeletedTitle)
	}

	http.Redirect(w, r, "/?"+url.Values{"message": {message}}.Encode(), http.StatusSeeOther)
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return false
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Malformed form data", nil)
		return false
	}
	return true
}

// errorCode maps a service error onto the API error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "MISSING_FIELD"
	case errors.Is(err, ErrInvalidDate):
		return "INVALID_DATE"
	case errors.Is(err, ErrFutureDate):
		return "FUTURE_DATE"
	case errors.Is(err, ErrDeathBeforeBirth):
		return "DEATH_BEFORE_BIRTH"
	case errors.Is(err, ErrUnknownAuthor):
		return "UNKNOWN_AUTHOR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicateISBN):
		return "DUPLICATE_ISBN"
	default:
		return "STORAGE_ERROR"
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := errorCode(err)

	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, r, http.StatusBadRequest, code, ve.Message, []httpx.ErrorDetail{
			{Field: ve.Field, Message: ve.Message},
		})
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, code, "Book not found.", nil)
	case errors.Is(err, ErrDuplicateISBN):
		httpx.JSONError(w, r, http.StatusConflict, code, "A book with this ISBN already exists.", []httpx.ErrorDetail{
			{Field: "isbn", Message: ErrDuplicateISBN.Error()},
		})
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, code, err.Error(), nil)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/delivery/http/middleware"
	"farumasi-backend/internal/infrastructure/storage"
	"farumasi-backend/internal/usecase"
	"farumasi-backend/pkg/response"
	"farumasi-backend/pkg/validator"

	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productUsecase usecase.ProductUsecase
	validator      *validator.CustomValidator
	images         storage.ObjectStorage
	maxUploadSize  int64
}

func NewProductHandler(productUsecase usecase.ProductUsecase, validator *validator.CustomValidator, images storage.ObjectStorage, maxUploadSize int64) *ProductHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &ProductHandler{
		productUsecase: productUsecase,
		validator:      validator,
		images:         images,
		maxUploadSize:  maxUploadSize,
	}
}

// productForm is a product request sent as multipart/form-data with an optional "image" file
type productForm struct {
	name                 string
	description          string
	category             string
	price                decimal.Decimal
	requiresPrescription bool
	image                *string
	file                 *multipart.FileHeader
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (*productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, errors.New("invalid form data")
	}

	form := &productForm{
		name:        r.FormValue("name"),
		description: r.FormValue("description"),
		category:    r.FormValue("category"),
	}
	if raw := strings.TrimSpace(r.FormValue("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.New("price must be a number")
		}
		form.price = price
	}
	if raw := strings.TrimSpace(r.FormValue("requires_prescription")); raw != "" {
		rx, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("requires_prescription must be true or false")
		}
		form.requiresPrescription = rx
	}
	if values, ok := r.MultipartForm.Value["image"]; ok && len(values) > 0 {
		form.image = &values[0]
	}
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		form.file = files[0]
	}
	return form, nil
}

// storeImage uploads the image file and returns its storage reference
func (h *ProductHandler) storeImage(ctx context.Context, file *multipart.FileHeader) (*string, error) {
	key, err := storage.ProductImageKey(file.Filename)
	if err != nil {
		return nil, err
	}
	body, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer body.Close()

	ref, err := h.images.Put(ctx, key, body, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// respondImageError reports a failed image upload; a wrong file type is the client's fault
func respondImageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrUnsupportedImage) {
		response.BadRequest(w, err.Error())
		return
	}
	response.InternalServerError(w, "Failed to store product image")
}

// Create handles product creation
// @Summary Create a new product
// @Description Add a product to a pharmacy's catalog. Send multipart/form-data to attach an "image" file.
// @Tags Products
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param request body dto.CreateProductRequest true "Create Product Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreateProductRequest
	var form *productForm
	if isMultipart(r) {
		var err error
		if form, err = h.parseProductForm(w, r); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		pharmacyID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("pharmacy_id")), 10, 64)
		if err != nil {
			response.BadRequest(w, "pharmacy_id must be a number")
			return
		}
		req = dto.CreateProductRequest{
			Name:                 form.name,
			Description:          form.description,
			Category:             form.category,
			Price:                form.price,
			RequiresPrescription: form.requiresPrescription,
			Image:                form.image,
			PharmacyID:           pharmacyID,
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if form != nil && form.file != nil {
		image, err := h.storeImage(r.Context(), form.file)
		if err != nil {
			respondImageError(w, err)
			return
		}
		req.Image = image
	}

	product, err := h.productUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPharmacyNotFound):
			response.NotFound(w, "Pharmacy not found")
		case errors.Is(err, usecase.ErrInvalidPrice):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create product")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Product created successfully", product)
}

// GetAll handles getting all products
// @Summary Get all products
// @Description List products with optional category, search and requires_prescription filters
// @Tags Products
// @Produce json
// @Param category query string false "Category"
// @Param search query string false "Name or description substring"
// @Param requires_prescription query bool false "Prescription-only filter"
// @Param limit query int false "Items per page" default(20)
// @Param offset query int false "Items to skip" default(0)
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pageParams(r)

	query := dto.ProductQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := q.Get("requires_prescription"); raw != "" {
		rx, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "requires_prescription must be true or false")
			return
		}
		query.RequiresPrescription = &rx
	}

	products, total, err := h.productUsecase.GetAll(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get products")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Products retrieved successfully", products, pageMeta(limit, offset, len(products), total))
}

// GetByID handles getting a product by ID
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	product, err := h.productUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductNotFound):
			response.NotFound(w, "Product not found")
		default:
			response.InternalServerError(w, "Failed to get product")
		}
		return
	}

	response.Success(w, http.StatusOK, "Product retrieved successfully", product)
}

// Update handles product update
// @Summary Update a product
// @Description A multipart "image" file replaces the stored image; omitting image keeps it
// @Tags Products
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Product ID"
// @Param request body dto.UpdateProductRequest true "Update Product Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	var req dto.UpdateProductRequest
	var form *productForm
	if isMultipart(r) {
		var err error
		if form, err = h.parseProductForm(w, r); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		req = dto.UpdateProductRequest{
			Name:                 form.name,
			Description:          form.description,
			Category:             form.category,
			Price:                form.price,
			RequiresPrescription: form.requiresPrescription,
			Image:                form.image,
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if form != nil && form.file != nil {
		image, err := h.storeImage(r.Context(), form.file)
		if err != nil {
			respondImageError(w, err)
			return
		}
		req.Image = image
	}

	product, err := h.productUsecase.Update(r.Context(), actorID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductNotFound):
			response.NotFound(w, "Product not found")
		case errors.Is(err, usecase.ErrInvalidPrice):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update product")
		}
		return
	}

	response.Success(w, http.StatusOK, "Product updated successfully", product)
}

// Delete handles product deletion
// @Summary Delete a product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid product ID", nil)
		return
	}

	if err := h.productUsecase.Delete(r.Context(), actorID, id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrProductNotFound):
			response.NotFound(w, "Product not found")
		case errors.Is(err, usecase.ErrProductInUse):
			response.Conflict(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to delete product")
		}
		return
	}

	response.Success(w, http.StatusOK, "Product deleted successfully", nil)
}

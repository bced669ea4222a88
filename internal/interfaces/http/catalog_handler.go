package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andyshop-api/internal/application/catalog"
	"github.com/jhoicas/andyshop-api/internal/application/dto"
)

// CatalogHandler maneja artículos, clientes, proveedores y la subida de fotos.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateArticle godoc
// @Summary      Crear artículo
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ArticleDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *CatalogHandler) CreateArticle(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateArticle(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetArticle godoc
// @Summary      Obtener artículo por ID
// @Tags         articles
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *CatalogHandler) GetArticle(c *fiber.Ctx) error {
	out, err := h.uc.GetArticle(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListArticles godoc
// @Summary      Listar artículos
// @Description  Búsqueda sin acentos ni mayúsculas sobre nombre, tienda y categoría.
// @Tags         articles
// @Produce      json
// @Param        q       query  string  false  "Texto a buscar"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.ArticleDTO]
// @Router       /api/articles [get]
func (h *CatalogHandler) ListArticles(c *fiber.Ctx) error {
	search := dto.SearchRequest{Query: c.Query("q")}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListArticles(c.Context(), search, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateClient godoc
// @Summary      Crear cliente
// @Description  El teléfono se normaliza y debe ser único.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.ClientDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *CatalogHandler) CreateClient(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateClient(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetClient godoc
// @Summary      Obtener cliente por ID
// @Tags         clients
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *CatalogHandler) GetClient(c *fiber.Ctx) error {
	out, err := h.uc.GetClient(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListClients godoc
// @Summary      Listar clientes
// @Tags         clients
// @Produce      json
// @Param        q       query  string  false  "Nombre o teléfono"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.ClientDTO]
// @Router       /api/clients [get]
func (h *CatalogHandler) ListClients(c *fiber.Ctx) error {
	search := dto.SearchRequest{Query: c.Query("q")}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListClients(c.Context(), search, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateSupplier(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Produce      json
// @Param        q    query  string  false  "Texto a buscar"
// @Success      200  {array}  dto.SupplierDTO
// @Router       /api/suppliers [get]
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.uc.ListSuppliers(c.Context(), dto.SearchRequest{Query: c.Query("q")})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadImage godoc
// @Summary      Subir foto de artículo
// @Description  JPEG, PNG o WebP de hasta 5 MB; se redimensiona a 800 px como máximo.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen"
// @Success      201   {object}  dto.UploadResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/uploads/images [post]
func (h *CatalogHandler) UploadImage(c *fiber.Ctx) error {
	img, err := readImage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UploadImage(c.Context(), img)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

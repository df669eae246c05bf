package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ananev/boutique/internal/model"
)

// ImageRef builds the reference string handed to clients for a stored image:
// the CDN URL when the best-effort upload succeeded, otherwise the local
// image endpoint.
func ImageRef(productID, imageID int64, cdnURL string) string {
	if cdnURL != "" {
		return cdnURL
	}
	return fmt.Sprintf("/api/products/%d/images/%d", productID, imageID)
}

// NewImage holds one image to attach to a product.
type NewImage struct {
	Data      []byte
	MIME      string
	CDNURL    string
	AltText   string
	IsPrimary bool
	SortOrder int
}

// AddProductImage stores an image row for a product.
func AddProductImage(ctx context.Context, db *sql.DB, productID int64, img NewImage) (*model.ProductImage, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO product_images (product_id, data, mime, cdn_url, alt_text, is_primary, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		productID, img.Data, img.MIME, nullable(img.CDNURL), nullable(img.AltText),
		img.IsPrimary, img.SortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("adding product image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting image id: %w", err)
	}

	return &model.ProductImage{
		ID:        id,
		ProductID: productID,
		URL:       ImageRef(productID, id, img.CDNURL),
		AltText:   img.AltText,
		IsPrimary: img.IsPrimary,
		SortOrder: img.SortOrder,
	}, nil
}

// ListProductImages returns all images of a product in representative order
// (primary first, then sort order).
func ListProductImages(ctx context.Context, db *sql.DB, productID int64) ([]model.ProductImage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, product_id, cdn_url, alt_text, is_primary, sort_order, created_at
		 FROM product_images WHERE product_id = ?
		 ORDER BY is_primary DESC, sort_order ASC, id ASC`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing product images: %w", err)
	}
	defer rows.Close()

	var images []model.ProductImage
	for rows.Next() {
		var img model.ProductImage
		var cdnURL, altText sql.NullString
		if err := rows.Scan(&img.ID, &img.ProductID, &cdnURL, &altText,
			&img.IsPrimary, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning product image: %w", err)
		}
		img.AltText = altText.String
		img.URL = ImageRef(img.ProductID, img.ID, cdnURL.String)
		images = append(images, img)
	}
	return images, rows.Err()
}

// GetImageData returns the stored bytes and MIME type of one image of a
// product. Returns nil data when the row does not exist or holds no blob.
func GetImageData(ctx context.Context, db *sql.DB, productID, imageID int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM product_images WHERE id = ? AND product_id = ?`,
		imageID, productID,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image data: %w", err)
	}
	return data, mime.String, nil
}

// GetRepresentativeImage returns the bytes and MIME of the product's
// representative image (primary flag first, then sort order). Nil data when
// the product has no images.
func GetRepresentativeImage(ctx context.Context, db *sql.DB, productID int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM product_images
		 WHERE product_id = ?
		 ORDER BY is_primary DESC, sort_order ASC, id ASC LIMIT 1`, productID,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting representative image: %w", err)
	}
	return data, mime.String, nil
}

// SetImageCDNURL records the remote copy of an image after a successful
// best-effort CDN upload.
func SetImageCDNURL(ctx context.Context, db *sql.DB, imageID int64, cdnURL string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE product_images SET cdn_url = ? WHERE id = ?`, cdnURL, imageID,
	)
	if err != nil {
		return fmt.Errorf("setting image cdn url: %w", err)
	}
	return nil
}

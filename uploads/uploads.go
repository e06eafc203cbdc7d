package uploads

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"farmermall/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

const (
	uploadDir = "./uploads"
	thumbDir  = "./uploads/thumb"

	// Multipart memory + hard size cap
	maxUploadSize = 30 << 20 // 30 MB

	thumbWidth = 300
)

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProductImage accepts a product photo in the "image" multipart field.
func ProductImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	handleUpload(w, r, "product")
}

// BannerImage accepts a carousel banner in the "image" multipart field.
func BannerImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	handleUpload(w, r, "banner")
}

func handleUpload(w http.ResponseWriter, r *http.Request, prefix string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		utils.RespondWithError(w, http.StatusBadRequest, "Only jpeg, jpg, png, gif and webp images are allowed")
		return
	}

	// Sniff the actual content, the extension alone is spoofable
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		utils.RespondWithError(w, http.StatusBadRequest, "Unreadable file")
		return
	}
	if !allowedMIMEs[http.DetectContentType(head[:n])] {
		utils.RespondWithError(w, http.StatusBadRequest, "File content is not a supported image")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process file")
		return
	}

	if err := utils.EnsureDir(uploadDir); err != nil {
		log.Printf("upload dir error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	filename := prefix + "-" + uuid.NewString() + ext
	destPath := filepath.Join(uploadDir, filename)

	dest, err := os.Create(destPath)
	if err != nil {
		log.Printf("upload create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}
	defer dest.Close()

	if _, err := io.Copy(dest, file); err != nil {
		log.Printf("upload copy error: %v", err)
		os.Remove(destPath)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	response := utils.M{
		"message":  "Upload successful",
		"filename": filename,
		"url":      "/uploads/" + filename,
	}

	// Thumbnail generation is best-effort; animated formats may not decode
	if thumb, err := makeThumbnail(destPath, filename); err == nil {
		response["thumbnail"] = thumb
	} else {
		log.Printf("thumbnail for %s skipped: %v", filename, err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, response)
}

// makeThumbnail writes a width-bound copy of the stored image and returns
// its public path.
func makeThumbnail(srcPath, filename string) (string, error) {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return "", err
	}

	if err := utils.EnsureDir(thumbDir); err != nil {
		return "", err
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(thumbDir, filename)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", err
	}
	return "/uploads/thumb/" + filename, nil
}

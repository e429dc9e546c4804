package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/tokodemo/storefront/internal/models"
	"github.com/tokodemo/storefront/internal/repositories"
)

// orderRecord is the flattened parquet row for an exported order.
type orderRecord struct {
	OrderID       int64  `parquet:"name=orderId,type=INT64"`
	Reference     string `parquet:"name=reference,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerName  string `parquet:"name=customerName,type=BYTE_ARRAY,convertedtype=UTF8"`
	Total         int64  `parquet:"name=total,type=INT64"`
	Status        string `parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	Items         string `parquet:"name=items,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderPlacedAt int64  `parquet:"name=orderPlacedAt,type=INT64"`
}

type Exporter struct {
	folder  string
	factory CloudWriterFactory
	bucket  string
	log     *logrus.Logger
}

// NewExporter writes under cfg.OutputFolder; when a cloud storage provider is
// configured the same object paths go to the bucket instead.
func NewExporter(cfg *models.Config, log *logrus.Logger) (*Exporter, error) {
	e := &Exporter{folder: cfg.OutputFolder, log: log}

	if cfg.CloudStorage.Provider != "" {
		var factory CloudWriterFactory
		var err error

		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err = NewS3WriterFactory(cfg.CloudStorage.Region)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		e.factory = factory
		e.bucket = cfg.CloudStorage.BucketName
	}
	return e, nil
}

// ExportMenus writes every stored daily menu as a JSON snapshot named
// menus/<date>.json.
func (e *Exporter) ExportMenus(ctx context.Context, menus repositories.MenuRepository) (int, error) {
	all, err := menus.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing menus: %w", err)
	}

	for _, m := range all {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("marshaling menu %s: %w", m.MenuDate, err)
		}
		objectPath := filepath.Join("menus", m.MenuDate+".json")
		if err := e.writeObject(objectPath, data); err != nil {
			return 0, err
		}
		e.log.WithFields(logrus.Fields{
			"date":  m.MenuDate,
			"items": len(m.Items),
		}).Info("exported daily menu")
	}
	return len(all), nil
}

// ExportOrders writes the full order history as a single parquet file at
// orders/orders.parquet.
func (e *Exporter) ExportOrders(ctx context.Context, orders repositories.OrderRepository) (int, error) {
	all, err := orders.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing orders: %w", err)
	}

	fw, err := e.newParquetFile(filepath.Join("orders", "orders.parquet"))
	if err != nil {
		return 0, err
	}

	pw, err := writer.NewParquetWriter(fw, new(orderRecord), 4)
	if err != nil {
		fw.Close()
		return 0, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	for _, o := range all {
		var itemNames []string
		for _, it := range o.Items {
			itemNames = append(itemNames, fmt.Sprintf("%s x%d", it.Name, it.Qty))
		}
		rec := orderRecord{
			OrderID:       o.ID,
			Reference:     o.Reference,
			CustomerName:  o.CustomerName,
			Total:         o.Total,
			Status:        string(o.Status),
			Items:         strings.Join(itemNames, ", "),
			OrderPlacedAt: o.CreatedAt.Unix(),
		}
		if err := pw.Write(rec); err != nil {
			fw.Close()
			return 0, fmt.Errorf("failed to write order %d: %w", o.ID, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return 0, fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return 0, fmt.Errorf("failed to close parquet file: %w", err)
	}

	e.log.WithField("orders", len(all)).Info("exported order history")
	return len(all), nil
}

func (e *Exporter) writeObject(objectPath string, data []byte) error {
	if e.factory != nil {
		w, err := e.factory.NewWriter(e.bucket, filepath.Join(e.folder, objectPath))
		if err != nil {
			return fmt.Errorf("failed to create cloud writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write object %s: %w", objectPath, err)
		}
		return w.Close()
	}

	fullPath := filepath.Join(e.folder, objectPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return os.WriteFile(fullPath, data, 0o644)
}

func (e *Exporter) newParquetFile(objectPath string) (source.ParquetFile, error) {
	if e.factory != nil {
		w, err := e.factory.NewWriter(e.bucket, filepath.Join(e.folder, objectPath))
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return newCloudParquetFile(w), nil
	}

	fullPath := filepath.Join(e.folder, objectPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	fw, err := local.NewLocalFileWriter(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

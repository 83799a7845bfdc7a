package booking

import (
	"github.com/m04kA/HMS-BookingService/pkg/dbmetrics"
)

// DBExecutor интерфейс исполнителя запросов (реализуется *sql.DB,
// *dbmetrics.DB и транзакциями)
type DBExecutor = dbmetrics.DBExecutor

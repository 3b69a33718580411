package server

// Server объединяет HTTP-серверы отдельных сущностей.
type Server struct {
	BarterServer
	ItemServer
	SyncServer
}

func NewServer(
	barterServer BarterServer,
	itemServer ItemServer,
	syncServer SyncServer,
) Server {
	return Server{
		BarterServer: barterServer,
		ItemServer:   itemServer,
		SyncServer:   syncServer,
	}
}

package commands

import (
	"fmt"
	"io"

	"github.com/offcontext/offcontext/pkg/admin"
	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
)

// Admin starts the local web interface over the project's store. It blocks
// until the server stops.
func Admin(project *config.Project, log *logging.Logger, w io.Writer, port int) error {
	if err := requireProject(project); err != nil {
		return err
	}
	store, cfg, err := openProjectStore(project)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	fmt.Fprintln(w, titleStyle.Render("offcontext admin"))
	fmt.Fprintf(w, "%s http://%s\n", labelStyle.Render("listening on:"), valueStyle.Render(addr))
	log.Infof("admin: serving %s on %s", project.Root, addr)

	srv := admin.New(project, cfg, store, log)
	return srv.Start(addr)
}

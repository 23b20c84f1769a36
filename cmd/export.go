package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"neuroflow/internal/config"
	"neuroflow/internal/export"
	"neuroflow/internal/model"
)

var (
	exportTable    string
	exportFormat   string
	exportFilename string
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export a table snapshot to CSV or JSON",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.InitConfig(configFile)
		if err != nil {
			logrus.Fatal("initConfig error, ", err.Error())
		}

		db, err := model.InitDB(model.DBConfig(conf.DB))
		if err != nil {
			logrus.Fatal("failed to init database, ", err)
		}

		filename, err := export.Export(db, exportTable, exportFormat, conf.ExportDir, exportFilename)
		if err != nil {
			logrus.Fatal("export failed, ", err)
		}
		logrus.Infof("exported %s to %s", exportTable, filename)
	},
}

func init() {
	exportCommand.Flags().StringVarP(&exportTable, "table", "t", "traffic_records",
		"Table to export (traffic_records, decision_log, session_stats)")
	exportCommand.Flags().StringVarP(&exportFormat, "format", "f", "csv",
		"Export format (csv, json)")
	exportCommand.Flags().StringVarP(&exportFilename, "output", "o", "",
		"Output filename (defaults to {table}_{timestamp}.{ext})")
}

/*
Package example contains some example of the various use of this library:

/client/api         resource server protecting its routes with token introspection (online and offline)
/client/app         web app demonstrating the authorization code flow with PKCE, userinfo and logout
/client/management  command line tool listing and creating roles with the management client
/client/config      environment based configuration shared by the examples
*/
package example
